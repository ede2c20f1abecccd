package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brewery-catalog/internal/api"
	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(cfg.Log, verbose)
		if err != nil {
			return err
		}
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	client := catalog.NewClient(cfg.Catalog, logger.Named("catalog"))
	sessions := session.NewStore(client, cfg.Session.IdleTTL, cfg.Session.CleanupInterval, logger.Named("session"))

	router := api.NewRouter(client, sessions, cfg, logger.Named("http"))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("upstream", cfg.Catalog.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutdown signal received, stopping services...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}

	logger.Info("Server gracefully stopped", zap.Int("sessions", sessions.Len()))
	return nil
}
