package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ahrav/pitch-arena/internal/arena"
	"github.com/ahrav/pitch-arena/internal/webapi"
)

func newServeCommand(configFlag *string) *cobra.Command {
	var addr string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tournament HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := arena.LoadConfig(*configFlag)
			if err != nil {
				return err
			}

			logger := slog.Default()
			manager, err := buildManager(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := webapi.NewServer(manager, logger).App()

			metricsServer := &http.Server{
				Addr:              metricsAddr,
				Handler:           promhttp.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				logger.Info("metrics endpoint listening", "addr", metricsAddr)
				if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics endpoint failed", "error", err)
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("api listening", "addr", addr)
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics shutdown failed", "error", err)
			}
			return app.ShutdownWithContext(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "API listen address")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Prometheus metrics listen address")

	return cmd
}
