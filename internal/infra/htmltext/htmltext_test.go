package htmltext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Fragments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "paragraphs",
			input: "<p>The park is closed.</p><p>Bring your dog on weekends.</p>",
			want:  "The park is closed.\n\nBring your dog on weekends.",
		},
		{
			name:  "inline elements keep spacing",
			input: "<p>Parking is <b>free</b> after <em>6pm</em>.</p>",
			want:  "Parking is free after 6pm.",
		},
		{
			name:  "line break splits paragraphs",
			input: "First line.<br>Second line.",
			want:  "First line.\n\nSecond line.",
		},
		{
			name:  "list items",
			input: "<ul><li>Milk</li><li>Eggs</li></ul>",
			want:  "Milk\n\nEggs",
		},
		{
			name:  "scripts and styles dropped",
			input: "<style>p{color:red}</style><p>Visible.</p><script>alert('x')</script><noscript>Enable JS</noscript>",
			want:  "Visible.",
		},
		{
			name:  "source formatting collapsed",
			input: "<p>\n  Spread\n\n  over\tlines.\n</p>",
			want:  "Spread over lines.",
		},
		{
			name:  "entities decoded",
			input: "<p>Fish &amp; chips &lt;3</p>",
			want:  "Fish & chips <3",
		},
		{
			name:  "plain text passes through",
			input: "No markup at all.",
			want:  "No markup at all.",
		},
		{
			name:  "comments ignored",
			input: "<p>Kept<!-- hidden --> text.</p>",
			want:  "Kept text.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_NoText(t *testing.T) {
	for _, input := range []string{"", "   ", "<script>var x = 1;</script>", "<div><p> </p></div>"} {
		_, err := Extract(input)
		assert.ErrorIs(t, err, ErrNoText, "input %q", input)
	}
}

func TestExtract_FullDocument(t *testing.T) {
	body := strings.Repeat("Residents asked the council to repair the footbridge before winter. ", 8)
	page := `<!DOCTYPE html>
<html>
<head><title>Forum</title><script>trackVisit();</script></head>
<body>
  <article>
    <h1>Footbridge repairs</h1>
    <p>` + body + `</p>
    <p>The council agreed to publish a schedule next week.</p>
  </article>
</body>
</html>`

	got, err := Extract(page)

	require.NoError(t, err)
	assert.Contains(t, got, "Residents asked the council to repair the footbridge before winter.")
	assert.Contains(t, got, "\n\n")
	assert.NotContains(t, got, "trackVisit")
	assert.NotContains(t, got, "<p>")
}

func TestIsDocument(t *testing.T) {
	assert.True(t, IsDocument("<!DOCTYPE html><html><body></body></html>"))
	assert.True(t, IsDocument("<BODY>text</BODY>"))
	assert.False(t, IsDocument("<p>fragment</p>"))
	assert.False(t, IsDocument("plain text"))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "", collapseSpace(""))
	assert.Equal(t, " ", collapseSpace("\n\t "))
	assert.Equal(t, " a b ", collapseSpace("  a\n\nb  "))
	assert.Equal(t, "a b", collapseSpace("a   b"))
}
