// Package render writes annotated text for a terminal, markdown, HTML, or PDF.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/annotext/internal/annotation"
	"github.com/at-ishikawa/annotext/internal/assets"
	"github.com/at-ishikawa/annotext/internal/segment"
)

type Format string

const (
	FormatTerminal Format = "terminal"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

var formats = []Format{FormatTerminal, FormatMarkdown, FormatHTML}

func (f Format) String() string {
	return string(f)
}

func (f *Format) Set(v string) error {
	for _, format := range formats {
		if string(format) == v {
			*f = format
			return nil
		}
	}
	return fmt.Errorf(`must be one of "terminal", "markdown", or "html"`)
}

func (f *Format) Type() string {
	return "format"
}

// Extension is the file extension of the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// Renderer writes annotated text with optional custom templates.
type Renderer struct {
	MarkdownTemplate string
	HTMLTemplate     string
}

func (r Renderer) Render(output io.Writer, format Format, title, text string, spans []annotation.Span) error {
	switch format {
	case FormatTerminal:
		return NewTerminal(output).Render(text, spans)
	case FormatMarkdown:
		return assets.WriteMarkdown(output, r.MarkdownTemplate, NewDocument(title, text, spans, false))
	case FormatHTML:
		return assets.WriteHTML(output, r.HTMLTemplate, NewDocument(title, text, spans, false))
	}
	return fmt.Errorf("unknown format: %s", format)
}

// NewDocument lays out the text as tokens and the text between them.
func NewDocument(title, text string, spans []annotation.Span, inline bool) assets.AnnotatedDocument {
	return assets.AnnotatedDocument{
		Title:    title,
		Inline:   inline,
		Segments: Segments(text, spans),
		Glossary: Glossary(spans),
	}
}

// Segments splits text at the token boundaries of spans.
// Text not covered by any token, such as skipped whitespace, becomes a plain segment.
func Segments(text string, spans []annotation.Span) []assets.AnnotatedSegment {
	runes := []rune(text)
	segments := make([]assets.AnnotatedSegment, 0, len(spans)*2+1)
	cursor := 0
	for i, span := range spans {
		start := min(max(span.Token.Start, cursor), len(runes))
		end := min(max(span.Token.End, start), len(runes))
		if cursor < start {
			segments = append(segments, assets.AnnotatedSegment{Text: string(runes[cursor:start])})
		}
		if start == end {
			continue
		}
		segments = append(segments, newSegment(string(runes[start:end]), span, segment.StyleAt(i)))
		cursor = end
	}
	if cursor < len(runes) {
		segments = append(segments, assets.AnnotatedSegment{Text: string(runes[cursor:])})
	}
	return segments
}

func newSegment(text string, span annotation.Span, style string) assets.AnnotatedSegment {
	if !span.Annotated() {
		return assets.AnnotatedSegment{Text: text}
	}
	entry, _ := span.Active()
	units := make([]assets.RubyUnit, 0, len(text))
	for _, unit := range span.Units() {
		units = append(units, assets.RubyUnit{Char: unit.Char, Reading: unit.Reading})
	}
	return assets.AnnotatedSegment{
		Text:    text,
		Style:   style,
		Units:   units,
		Reading: append([]string{}, entry.Reading...),
		Senses:  span.Senses(),
	}
}

// Glossary lists each annotated word once, in the order it first appears.
func Glossary(spans []annotation.Span) []assets.GlossaryItem {
	items := make([]assets.GlossaryItem, 0, len(spans))
	seen := make(map[string]bool)
	for _, span := range spans {
		if !span.Annotated() {
			continue
		}
		entry, _ := span.Active()
		key := span.Token.Text + "\x00" + strings.Join(entry.Reading, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, assets.GlossaryItem{
			Term:       span.Token.Text,
			Reading:    append([]string{}, entry.Reading...),
			Definition: entry.Definition(),
			Candidate:  min(max(span.ActiveEntryIndex, 0), len(span.Entries)-1) + 1,
			Candidates: len(span.Entries),
		})
	}
	return items
}
