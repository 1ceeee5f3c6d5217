package summary_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/handler/http/summary"
	"forum-summarizer/internal/observability/tracing"
	summaryUC "forum-summarizer/internal/usecase/summary"
)

type stubSummarizer struct {
	result   *entity.SummaryResult
	err      error
	lastText string
	lastOpts entity.SummaryOptions
}

func (s *stubSummarizer) Summarize(_ context.Context, text string, opts entity.SummaryOptions) (*entity.SummaryResult, error) {
	s.lastText = text
	s.lastOpts = opts
	return s.result, s.err
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/summaries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded), rr.Body.String())
	return rr, decoded
}

func intPtr(v int) *int { return &v }

/* ───────── Success ───────── */

func TestCreateHandler_Success(t *testing.T) {
	stub := &stubSummarizer{result: &entity.SummaryResult{
		Summary: "Council debated the transit budget.",
		Model:   "claude-sonnet-4-5",
		Options: entity.ResolvedOptions{LengthPreference: "concise", Quality: "high", Format: "text", MinLength: 30, MaxLength: 60},
	}}

	rr, body := post(t, summary.CreateHandler{Svc: stub},
		`{"text":"The council met.","options":{"lengthPreference":"concise","quality":"high","minLength":30,"maxLength":60,"format":"text"}}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Council debated the transit budget.", body["summary"])
	assert.Equal(t, "claude-sonnet-4-5", body["model"])
	assert.NotContains(t, body, "fallback", "fallback is omitted when false")
	assert.Equal(t, map[string]any{
		"lengthPreference": "concise",
		"quality":          "high",
		"format":           "text",
		"minLength":        float64(30),
		"maxLength":        float64(60),
	}, body["options"])

	assert.Equal(t, "The council met.", stub.lastText)
	want := entity.SummaryOptions{LengthPreference: "concise", Quality: "high", MinLength: intPtr(30), MaxLength: intPtr(60), Format: "text"}
	if diff := cmp.Diff(want, stub.lastOpts); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateHandler_FallbackFlag(t *testing.T) {
	stub := &stubSummarizer{result: &entity.SummaryResult{
		Summary:  "The park is closed.",
		Model:    summaryUC.ExtractiveModel,
		Fallback: true,
	}}

	rr, body := post(t, summary.CreateHandler{Svc: stub}, `{"text":"The park is closed. Bring your dog."}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "extractive", body["model"])
}

func TestCreateHandler_OptionsAbsent(t *testing.T) {
	stub := &stubSummarizer{result: &entity.SummaryResult{Summary: "x", Model: "m"}}

	rr, _ := post(t, summary.CreateHandler{Svc: stub}, `{"text":"hello"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, entity.SummaryOptions{}, stub.lastOpts)
}

/* ───────── Errors ───────── */

func TestCreateHandler_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		err         error
		wantStatus  int
		wantError   string
		wantDetails bool
	}{
		{
			name:       "malformed JSON",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body: malformed JSON",
		},
		{
			name:       "wrong type",
			body:       `{"text":42}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body: malformed JSON",
		},
		{
			name:       "empty text",
			body:       `{"text":"   "}`,
			err:        &entity.ValidationError{Field: "text", Message: "text is required", Err: entity.ErrEmptyText},
			wantStatus: http.StatusBadRequest,
			wantError:  "text is required",
		},
		{
			name:       "text too long",
			body:       `{"text":"long"}`,
			err:        &entity.ValidationError{Field: "text", Message: "text must not exceed 4000 characters", Err: entity.ErrTextTooLong},
			wantStatus: http.StatusBadRequest,
			wantError:  "text must not exceed 4000 characters",
		},
		{
			name:        "empty summary",
			body:        `{"text":"..."}`,
			err:         fmt.Errorf("extractive fallback: %w", entity.ErrEmptySummary),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "failed to generate summary",
			wantDetails: true,
		},
		{
			name:       "unexpected error is masked",
			body:       `{"text":"hi"}`,
			err:        errors.New("claude: 401 sk-ant-api03-secret"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSummarizer{err: tt.err}

			rr, body := post(t, summary.CreateHandler{Svc: stub}, tt.body)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantDetails {
				assert.NotEmpty(t, body["details"])
			} else {
				assert.NotContains(t, body, "details")
			}
		})
	}
}

func TestCreateHandler_BodyTooLarge(t *testing.T) {
	stub := &stubSummarizer{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 16)
		summary.CreateHandler{Svc: stub}.ServeHTTP(w, r)
	})

	rr, body := post(t, handler, `{"text":"`+strings.Repeat("a", 64)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "request body too large", body["error"])
}

/* ───────── End to end with the extractive fallback ───────── */

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	summary.Register(mux, summaryUC.NewService(nil, nil, nil, summaryUC.Config{}))
	return mux
}

func TestRegister_ExtractiveOnly(t *testing.T) {
	text := "The city council met on Tuesday evening. Members debated the new transit budget. " +
		"Several residents spoke about bus delays.\n\nEngineers proposed a dedicated bus lane. " +
		"The lane would run along Main Street. Construction could begin next spring."

	reqBody, err := json.Marshal(summary.CreateRequest{Text: text, Options: &summary.OptionsDTO{LengthPreference: "concise"}})
	require.NoError(t, err)

	rr, body := post(t, newMux(), string(reqBody))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "extractive", body["model"])

	out, ok := body["summary"].(string)
	require.True(t, ok)
	require.NotEmpty(t, out)
	opts := body["options"].(map[string]any)
	assert.Equal(t, "concise", opts["lengthPreference"])
	assert.LessOrEqual(t, float64(utf8.RuneCountInString(out)), opts["maxLength"].(float64))
}

func TestRegister_ValidationThroughService(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "whitespace only", text: " \n\t "},
		{name: "over the cap", text: strings.Repeat("a", 4001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqBody, err := json.Marshal(summary.CreateRequest{Text: tt.text})
			require.NoError(t, err)

			rr, body := post(t, newMux(), string(reqBody))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRegister_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	newMux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/summaries", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

/* ───────── Tracing ───────── */

func TestCreateHandler_AnnotatesRequestSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)))
	t.Cleanup(func() { otel.SetTracerProvider(sdktrace.NewTracerProvider()) })

	stub := &stubSummarizer{result: &entity.SummaryResult{
		Summary:  "Council debated the transit budget.",
		Model:    "extractive",
		Fallback: true,
		Options:  entity.ResolvedOptions{LengthPreference: "detailed", Quality: "standard", Format: "text", MinLength: 30, MaxLength: 60},
	}}

	rr, _ := post(t, tracing.Middleware(summary.CreateHandler{Svc: stub}), `{"text":"The council met."}`)
	require.Equal(t, http.StatusOK, rr.Code)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /summaries", spans[0].Name)

	got := map[string]any{}
	for _, kv := range spans[0].Attributes {
		got[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "detailed", got[string(tracing.AttrPreference)])
	assert.Equal(t, "extractive", got[string(tracing.AttrModel)])
	assert.Equal(t, true, got[string(tracing.AttrFallback)])
}
