package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/simple-cms/internal/logging"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/api"
	"github.com/tendant/simple-cms/pkg/simplecms/config"
	"github.com/tendant/simple-cms/pkg/simplecms/metrics"
	"github.com/tendant/simple-cms/pkg/simplecms/site"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s\n\n", os.Args[0])
		if usage, err := config.EnvUsage(); err == nil {
			fmt.Fprintln(flag.CommandLine.Output(), usage)
		}
	}
	flag.Parse()

	dotenvErr := godotenv.Load()

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		logging.Fatal("Failed to load server configuration", "error", err)
	}

	logger := logging.Setup(logging.Options{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		logger.Warn("Failed to load .env file", "error", dotenvErr)
	}

	if err := run(cfg, logger); err != nil {
		logging.Fatal("Server error", "error", err)
	}
}

func run(cfg *config.ServerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var collector *metrics.Collector
	sinks := []simplecms.EventSink{simplecms.NewLoggingEventSink(logger)}
	if cfg.EnableMetrics {
		collector = metrics.New()
		sinks = append(sinks, collector.EventSink())
	}

	svc, cleanup, err := cfg.BuildService(ctx,
		simplecms.WithEventSink(simplecms.NewMultiEventSink(sinks...)),
		simplecms.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer cleanup()

	credentials, err := cfg.BuildCredentialStore()
	if err != nil {
		return fmt.Errorf("failed to build credential store: %w", err)
	}

	routerCfg := api.RouterConfig{
		Service:                 svc,
		Credentials:             credentials,
		Sessions:                cfg.BuildSessionManager(),
		Site:                    site.NewHandler(svc, site.WithLogger(logger)),
		Logger:                  logger,
		AllowedOrigins:          cfg.CORSAllowedOrigins,
		LoginRateLimitPerMinute: cfg.LoginRateLimitPerMinute,
		TrustProxyHeaders:       cfg.TrustProxyHeaders,
		Environment:             cfg.Environment,
		Database:                cfg.DatabaseType,
	}
	if collector != nil {
		routerCfg.Metrics = collector
		routerCfg.MetricsHandler = collector.Handler()
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Simple CMS server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"database", cfg.DatabaseType,
			"metrics", cfg.EnableMetrics)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}
