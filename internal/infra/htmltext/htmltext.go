// Package htmltext converts HTML input into plain text whose paragraphs are
// separated by blank lines, the structure the extractive summarizer segments on.
//
// Full documents are first reduced to their main content with go-readability.
// Fragments are converted directly.
package htmltext

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ErrNoText is returned when the HTML contains no visible text.
var ErrNoText = errors.New("html contains no text")

// paragraphBreak separates paragraphs in the extracted text.
const paragraphBreak = "\n\n"

// blockElements start and end a paragraph.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true, "table": true,
	"section": true, "article": true, "header": true, "footer": true,
	"dd": true, "dt": true, "figcaption": true, "hr": true,
}

// removedElements never contribute text.
const removedElements = "script, style, noscript, template, iframe, svg"

// Extract returns the visible text of html with one paragraph per block element.
func Extract(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ErrNoText
	}

	source := html
	if IsDocument(html) {
		if content, ok := mainContent(html); ok {
			source = content
		}
	}

	out, err := fragmentText(source)
	if err != nil {
		return "", err
	}
	if out == "" && source != html {
		// readability kept nothing visible, fall back to the whole page
		out, err = fragmentText(html)
		if err != nil {
			return "", err
		}
	}
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}

// IsDocument reports whether s looks like a complete HTML page rather than a fragment.
func IsDocument(s string) bool {
	head := strings.ToLower(s)
	if len(head) > 1024 {
		head = head[:1024]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<body") || strings.Contains(head, "<!doctype html")
}

// mainContent isolates the readable part of a full page.
func mainContent(html string) (string, bool) {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		slog.Debug("readability extraction failed, using whole document",
			slog.String("error", err.Error()))
		return "", false
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", false
	}
	return article.Content, true
}

func fragmentText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(removedElements).Remove()

	var b strings.Builder
	walk(doc.Selection, &b)
	return joinParagraphs(b.String()), nil
}

func walk(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			b.WriteString(collapseSpace(child.Text()))
		case name == "br":
			b.WriteString(paragraphBreak)
		case blockElements[name]:
			b.WriteString(paragraphBreak)
			walk(child, b)
			b.WriteString(paragraphBreak)
		case strings.HasPrefix(name, "#"):
			// comments and doctype
		default:
			walk(child, b)
		}
	})
}

// collapseSpace replaces every whitespace run with a single space, keeping
// a leading or trailing space so inline elements stay separated.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	inner := strings.Join(strings.Fields(s), " ")
	if inner == "" {
		return " "
	}
	if strings.TrimLeftFunc(s, unicode.IsSpace) != s {
		inner = " " + inner
	}
	if strings.TrimRightFunc(s, unicode.IsSpace) != s {
		inner += " "
	}
	return inner
}

// joinParagraphs collapses whitespace inside each paragraph and drops empty ones.
func joinParagraphs(raw string) string {
	parts := strings.Split(raw, paragraphBreak)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, paragraphBreak)
}
