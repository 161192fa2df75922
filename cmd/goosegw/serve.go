package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	goosegateway "github.com/launchpad-labs/goose-gateway"
	"github.com/launchpad-labs/goose-gateway/internal/environ"
	"github.com/launchpad-labs/goose-gateway/internal/logging"
	"github.com/launchpad-labs/goose-gateway/internal/version"

	// Register the gateway metrics before /metrics is mounted.
	_ "github.com/launchpad-labs/goose-gateway/internal/metrics"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	_ = godotenv.Load()
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	log := logging.Logger

	src := environ.OS{}
	cfg, err := goosegateway.LoadConfig(configPath, src)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	gw := goosegateway.New(cfg, gatewayLocatorOption(cfg))
	if gw.Discovery().IsLocatorAvailable() {
		log.Info("platform model locator bound", "url", cfg.Locator.URL)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(gw),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("goose gateway listening",
		"version", version.Short(),
		"addr", addr,
		"catalog_providers", gw.Catalog().Len(),
		"agent_configured", cfg.Agent.Path != "")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stop()
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("server stopped")
	return nil
}
