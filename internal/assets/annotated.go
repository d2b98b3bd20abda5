package assets

import (
	"fmt"
	"io"
	"text/template"
)

// AnnotatedDocument is the data of the annotated text templates.
type AnnotatedDocument struct {
	Title string
	// Inline writes readings in parentheses instead of ruby markup
	Inline   bool
	Segments []AnnotatedSegment
	Glossary []GlossaryItem
}

// AnnotatedSegment is either a token or the text between two tokens.
type AnnotatedSegment struct {
	Text    string
	Style   string
	Units   []RubyUnit
	Reading []string
	Senses  []string
}

// Annotated reports whether the segment is written with readings.
func (s AnnotatedSegment) Annotated() bool {
	return len(s.Reading) > 0
}

// RubyUnit is one character with the reading written above it.
type RubyUnit struct {
	Char    string
	Reading string
}

// GlossaryItem is a word of the text with its selected meaning.
type GlossaryItem struct {
	Term       string
	Reading    []string
	Definition string
	// Candidate is 1-based
	Candidate  int
	Candidates int
}

func WriteMarkdown(output io.Writer, templatePath string, document AnnotatedDocument) error {
	tmpl, err := ParseMarkdownTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseMarkdownTemplate() > %w", err)
	}
	return execute(tmpl, output, document)
}

func WriteHTML(output io.Writer, templatePath string, document AnnotatedDocument) error {
	tmpl, err := ParseHTMLTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseHTMLTemplate() > %w", err)
	}
	return execute(tmpl, output, document)
}

func execute(tmpl *template.Template, output io.Writer, document AnnotatedDocument) error {
	if err := tmpl.Execute(output, document); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
