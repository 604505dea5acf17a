package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vitorpq/onescriber/server"
	"github.com/vitorpq/onescriber/utils"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve isolated transcription and chat sessions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.ServerAddr
			}
			p := newPipeline(cfg, logger, cmd.ErrOrStderr())

			registry := server.NewRegistry(func(id string) *utils.Orchestrator {
				sessionLogger := logger.With(slog.String("session", id))
				dir := filepath.Join(cfg.DataDir, id)
				return p.session(
					filepath.Join(cfg.TmpDir, id, "downloaded_audio"),
					filepath.Join(dir, filepath.Base(cfg.TranscriptPath)),
					filepath.Join(dir, filepath.Base(cfg.FormattedPath)),
					logNotifier{logger: sessionLogger},
					sessionLogger,
				)
			}, func(id string) error {
				return errors.Join(
					os.RemoveAll(filepath.Join(cfg.DataDir, id)),
					os.RemoveAll(filepath.Join(cfg.TmpDir, id)),
				)
			})
			srv := server.New(registry, logger)

			errc := make(chan error, 1)
			go func() { errc <- srv.Listen(addr) }()

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
				logger.Info("shutting down")
				return srv.Shutdown()
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default SERVER_ADDR or :3000)")
	return cmd
}
