package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/annotext/internal/annotation"
)

// Terminal writes each word in its palette colour followed by its reading,
// then a numbered glossary.
type Terminal struct {
	output io.Writer
	bold   *color.Color
	faint  *color.Color
}

func NewTerminal(output io.Writer) *Terminal {
	return &Terminal{
		output: output,
		bold:   color.New(color.Bold),
		faint:  color.New(color.Faint),
	}
}

func (t *Terminal) Render(text string, spans []annotation.Span) error {
	var line strings.Builder
	for _, segment := range Segments(text, spans) {
		if !segment.Annotated() {
			line.WriteString(segment.Text)
			continue
		}
		line.WriteString(paletteColor(segment.Style).Sprint(segment.Text))
		line.WriteString(t.faint.Sprintf("(%s)", strings.Join(segment.Reading, " ")))
	}
	if _, err := fmt.Fprintln(t.output, line.String()); err != nil {
		return fmt.Errorf("fmt.Fprintln > %w", err)
	}

	glossary := Glossary(spans)
	if len(glossary) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(t.output); err != nil {
		return fmt.Errorf("fmt.Fprintln > %w", err)
	}
	for i, item := range glossary {
		candidate := ""
		if 1 < item.Candidates {
			candidate = t.faint.Sprintf(" [%d/%d]", item.Candidate, item.Candidates)
		}
		if _, err := fmt.Fprintf(t.output, "%d. %s %s%s: %s\n",
			i+1,
			t.bold.Sprint(item.Term),
			strings.Join(item.Reading, " "),
			candidate,
			item.Definition,
		); err != nil {
			return fmt.Errorf("fmt.Fprintf > %w", err)
		}
	}
	return nil
}

// paletteColor turns a "#rrggbb" style tag into a terminal colour.
func paletteColor(style string) *color.Color {
	rgb, err := strconv.ParseUint(strings.TrimPrefix(style, "#"), 16, 32)
	if err != nil || len(style) != 7 {
		return color.New(color.Reset)
	}
	return color.RGB(int(rgb>>16&0xff), int(rgb>>8&0xff), int(rgb&0xff))
}
