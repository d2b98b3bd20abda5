package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenizeCommand() *cobra.Command {
	var backend Backend
	command := &cobra.Command{
		Use:   "tokenize [text]",
		Short: "Split text into tokens with their character offsets",
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

			output := cmd.OutOrStdout()
			for _, token := range p.tokenize(cmd.Context(), text) {
				if _, err := fmt.Fprintf(output, "%d\t%d\t%s\n", token.Start, token.End, token.Text); err != nil {
					return fmt.Errorf("fmt.Fprintf > %w", err)
				}
			}
			return nil
		},
	}
	command.Flags().Var(&backend, "backend", fmt.Sprintf("Tokenizer to use instead of the configured one. Possible values are %v", allBackends))
	return command
}
