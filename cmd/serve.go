package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/medbench/internal/adapters/http/api"
	"github.com/okian/medbench/internal/adapters/http/swagger"
	service "github.com/okian/medbench/internal/app"
	"github.com/okian/medbench/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve frontiers, diagnostics and charts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			log, err := setupLogging(ctx, cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			c, err := build(cfg, log)
			if err != nil {
				return err
			}

			// A failed first run leaves the API answering 503 until a refresh succeeds.
			if _, err := c.svc.Run(ctx); err != nil {
				log.Warn(ctx, "initial run failed", logger.Error(err))
			}
			if interval > 0 {
				go startRefresher(ctx, c.svc, interval, log)
			}

			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			api.NewServer(c.svc, c.svc, c.html, c.png).Register(ctx, mux)
			return serve(ctx, cfg.Addr, mux, log)
		},
	}
	cmd.Flags().DurationVar(&interval, "refresh-interval", 0, "rerun the pipeline periodically (0 disables)")
	return cmd
}

// serve runs the HTTP server until ctx ends, then shuts it down gracefully.
func serve(ctx context.Context, addr string, h http.Handler, log logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startRefresher reruns the pipeline on every tick until ctx ends.
func startRefresher(ctx context.Context, svc *service.Service, interval time.Duration, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Refresh(ctx); err != nil {
				log.Warn(ctx, "scheduled refresh failed", logger.Error(err))
			}
		}
	}
}
