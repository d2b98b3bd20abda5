package assets

import (
	"embed"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.go.tmpl
var fallbackTemplates embed.FS

const (
	markdownTemplateName = "annotated.md.go.tmpl"
	htmlTemplateName     = "annotated.html.go.tmpl"
)

func ParseMarkdownTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, markdownTemplateName)
}

func ParseHTMLTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, htmlTemplateName)
}

func parseTemplateWithFallback(templatePath string, fallbackName string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join":   strings.Join,
		"escape": html.EscapeString,
		"cell":   markdownCell,
	}

	// First, try to read from the filesystem
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	// Fall back to embedded assets
	fallback, err := fallbackTemplates.ReadFile("templates/" + fallbackName)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded template %s: %w", fallbackName, err)
	}
	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(string(fallback))
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}

	return tmpl, nil
}

// markdownCell keeps a value inside one cell of a markdown table.
func markdownCell(value string) string {
	value = strings.ReplaceAll(value, "|", `\|`)
	return strings.Join(strings.Fields(value), " ")
}
