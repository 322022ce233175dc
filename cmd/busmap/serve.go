package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"busmap.org/internal/appconf"
	"busmap.org/internal/logging"
	"busmap.org/internal/metrics"
	"busmap.org/internal/restapi"
	"busmap.org/internal/webui"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the map API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 4000, "API server port")
	serveCmd.Flags().String("api-keys", "", "Comma separated API keys; empty leaves the API open")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()
	s, err := newSession(ctx, cfg, logger, collector)
	if err != nil {
		return err
	}
	defer s.Close(logger)

	// The map still works without the initial route list; routes are then
	// fetched per selection.
	if _, err := s.app.LoadInitialRoutes(ctx); err != nil {
		logger.Warn("starting without route list", slog.String("error", err.Error()))
	}
	s.app.OnViewportChanged(s.app.InitialViewport(ctx))

	api := restapi.NewRestAPI(s.app, collector.Handler())
	defer api.Stop()
	if cfg.Env != appconf.Production {
		api.Mount((&webui.WebUI{App: s.app}).SetWebUIRoutes)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.DataSource.Timeout + 10*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.Env.String()),
			slog.String("source", cfg.DataSource.BaseURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return logging.StartupError(logger, "server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
