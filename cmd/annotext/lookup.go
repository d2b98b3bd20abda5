package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <term>",
		Short: "Look up the dictionary entries of a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := args[0]
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			p, err := newPipeline(cfg, "")
			if err != nil {
				return fmt.Errorf("newPipeline() > %w", err)
			}
			defer func() {
				_ = p.Close()
			}()

			entries, err := p.client.Lookup(cmd.Context(), term)
			if err != nil {
				return fmt.Errorf("client.Lookup > %w", err)
			}
			output := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, err := fmt.Fprintf(output, "No entries for %s\n", term)
				return err
			}
			for i, entry := range entries {
				if _, err := fmt.Fprintf(output, "%d. %s: %s\n", i+1, strings.Join(entry.Reading, " "), entry.Definition()); err != nil {
					return fmt.Errorf("fmt.Fprintf > %w", err)
				}
			}
			return nil
		},
	}
}
