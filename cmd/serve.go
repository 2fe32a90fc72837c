package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/faqpilot/faqpilot/internal/api"
	"github.com/faqpilot/faqpilot/internal/app"
	"github.com/faqpilot/faqpilot/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP JSON API server.

Endpoints:
  POST /api/v1/faq           Answer a question from a support conversation
  POST /api/v1/admin/reload  Reload the FAQ document from disk
  GET  /api/v1/directory     Current classification directory
  GET  /health, /ready       Probes`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (host:port, overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting HTTP API server", "version", Version)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	srv, err := api.NewServer(api.ServerConfig{
		Logger:      logger,
		Flow:        a.Flow,
		Store:       a.Store,
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
		RateRPS:     cfg.RateLimitRPS,
		RateBurst:   cfg.RateLimitBurst,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	logger.Info("HTTP server ready",
		"addr", addr,
		"api", "/api/v1/*",
		"health", "/health, /ready",
	)

	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("HTTP server: %w", err)
	}
	return nil
}
