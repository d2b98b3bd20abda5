package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"

	"github.com/at-ishikawa/annotext/internal/annotation"
	"github.com/at-ishikawa/annotext/internal/assets"
)

// WritePDF writes the annotated text as a markdown file and converts it to PDF next to it.
// Readings are written inline since the PDF renderer has no ruby support.
func WritePDF(markdownPath string, templatePath string, title, text string, spans []annotation.Span) (string, error) {
	var buf bytes.Buffer
	if err := assets.WriteMarkdown(&buf, templatePath, NewDocument(title, text, spans, true)); err != nil {
		return "", fmt.Errorf("assets.WriteMarkdown() > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(markdownPath), 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(markdownPath), err)
	}
	if err := os.WriteFile(markdownPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}
	return ConvertMarkdownToPDF(markdownPath)
}

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}
