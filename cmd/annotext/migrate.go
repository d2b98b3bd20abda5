package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/annotext/internal/database"
	"github.com/at-ishikawa/annotext/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables of the database dictionary cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			if err := database.Migrate(cmd.Context(), db, schemas.Migrations, "migrations"); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return err
		},
	}
}
