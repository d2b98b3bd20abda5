package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/annotext/internal/render"
)

func newAnnotateCommand() *cobra.Command {
	var backend Backend
	format := render.FormatTerminal
	var outputFile string
	var title string
	var pdfName string

	command := &cobra.Command{
		Use:   "annotate [text]",
		Short: "Write text with readings above each word and a glossary",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("readText() > %w", err)
			}
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			p, err := newPipeline(cfg, backend)
			if err != nil {
				return fmt.Errorf("newPipeline() > %w", err)
			}
			defer func() {
				_ = p.Close()
			}()

			ctx := cmd.Context()
			spans := p.builder.BuildAll(ctx, p.tokenize(ctx, text))

			if pdfName != "" {
				markdownPath := filepath.Join(cfg.Outputs.Directory, pdfName+".md")
				pdfPath, err := render.WritePDF(markdownPath, cfg.Templates.MarkdownTemplate, title, text, spans)
				if err != nil {
					return fmt.Errorf("render.WritePDF() > %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "PDF generated: %s\n", pdfPath)
				return err
			}

			var output io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
					return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(outputFile), err)
				}
				file, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", outputFile, err)
				}
				defer func() {
					_ = file.Close()
				}()
				output = file
			}

			renderer := render.Renderer{
				MarkdownTemplate: cfg.Templates.MarkdownTemplate,
				HTMLTemplate:     cfg.Templates.HTMLTemplate,
			}
			if err := renderer.Render(output, format, title, text, spans); err != nil {
				return fmt.Errorf("renderer.Render() > %w", err)
			}
			return nil
		},
	}
	flags := command.Flags()
	flags.Var(&backend, "backend", fmt.Sprintf("Tokenizer to use instead of the configured one. Possible values are %v", allBackends))
	flags.Var(&format, "format", `Output format. Possible values are "terminal", "markdown", and "html"`)
	flags.StringVarP(&outputFile, "output", "o", "", "Write to the file instead of stdout")
	flags.StringVar(&title, "title", "", "Title of markdown, HTML, and PDF output")
	flags.StringVar(&pdfName, "pdf", "", "Write a PDF with this name into the outputs directory")
	return command
}
