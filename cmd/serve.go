package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	deps "github.com/bwise1/media_ranker/internal/debs"
	api "github.com/bwise1/media_ranker/internal/http/rest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and websocket hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			d, err := deps.New(cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := d.Close(); err != nil {
					logger.Warn("close store", zap.Error(err))
				}
			}()

			if migrate {
				if err := d.Store.Migrate(cmd.Context()); err != nil {
					return err
				}
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go d.WebSocket.Run(runCtx)

			a := &api.API{Config: cfg, Deps: d, Logger: logger}
			a.Init()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server running", zap.Int("port", cfg.Port), zap.String("db_driver", cfg.DBDriver))
				errCh <- a.Serve()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-cmd.Context().Done():
			}

			logger.Info("request to shutdown server", zap.Duration("grace", allowConnectionsAfterShutdown))
			time.Sleep(allowConnectionsAfterShutdown)

			logger.Info("shutting down server")
			cancel()
			return a.Shutdown(context.Background())
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}
