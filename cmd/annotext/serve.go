package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/annotext/internal/bootstrap"
	"github.com/at-ishikawa/annotext/internal/collection"
	"github.com/at-ishikawa/annotext/internal/server"
)

func newServeCommand() *cobra.Command {
	var backend Backend
	var port int
	command := &cobra.Command{
		Use:   "serve",
		Short: "Serve tokenization and annotation over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			p, err := newPipeline(cfg, backend)
			if err != nil {
				return fmt.Errorf("newPipeline() > %w", err)
			}
			defer func() {
				_ = p.Close()
			}()

			var hook collection.Hook
			if c := p.collection(); c != nil {
				hook = c.Hook()
			}
			srv := server.NewServer(cfg.Server, server.NewHandler(p.tokenizer, p.builder, hook))

			app := bootstrap.New(0)
			app.AddShutdownHook(srv.Shutdown)
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				slog.Default().Info("starting server", slog.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("srv.ListenAndServe() > %w", err)
				}
				return nil
			})
		},
	}
	flags := command.Flags()
	flags.Var(&backend, "backend", fmt.Sprintf("Tokenizer to use instead of the configured one. Possible values are %v", allBackends))
	flags.IntVar(&port, "port", 0, "Port to listen on instead of the configured one")
	return command
}
