// Command blueprint-server serves the blueprint API: listing and projecting
// blueprints loaded from a directory of YAML documents, and validating field
// submissions against their rule chains.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	blueprint "github.com/goliatone/go-blueprint"
	"github.com/goliatone/go-blueprint/components/formapi"
	"github.com/goliatone/go-blueprint/pkg/lookup"
	"github.com/goliatone/go-blueprint/pkg/lookup/httplookup"
	"github.com/goliatone/go-blueprint/pkg/metrics"
	"github.com/goliatone/go-blueprint/pkg/store"
)

// Config is read from the environment.
type Config struct {
	Host          string        `envconfig:"HOST" default:"0.0.0.0"`
	Port          string        `envconfig:"PORT" default:"8080"`
	BasePath      string        `envconfig:"BASE_PATH" default:"/api"`
	SchemaDir     string        `envconfig:"SCHEMA_DIR" default:"schemas"`
	LookupBaseURL string        `envconfig:"LOOKUP_BASE_URL" default:""`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	Development   bool          `envconfig:"LOG_DEV" default:"false"`
	ShutdownGrace time.Duration `envconfig:"SHUTDOWN_GRACE" default:"10s"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	schemaStore, err := store.NewMemoryFromFS(os.DirFS(cfg.SchemaDir))
	if err != nil {
		return fmt.Errorf("load schemas from %s: %w", cfg.SchemaDir, err)
	}

	var services lookup.Services
	if cfg.LookupBaseURL != "" {
		client, err := httplookup.New(cfg.LookupBaseURL)
		if err != nil {
			return fmt.Errorf("build lookup client: %w", err)
		}
		services = client
	}

	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)

	engine, err := blueprint.New(
		blueprint.WithStore(schemaStore),
		blueprint.WithLookupServices(services),
		blueprint.WithLogger(logger),
		blueprint.WithMetrics(collector),
	)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	mux := http.NewServeMux()
	if err := formapi.RegisterRoutes(mux, cfg.BasePath,
		formapi.WithProjection(engine.Projection()),
		formapi.WithEvaluator(engine.Evaluator()),
		formapi.WithLogger(logger),
	); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := cfg.Host + ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("blueprint server listening",
			zap.String("addr", addr),
			zap.String("base_path", cfg.BasePath),
			zap.String("schema_dir", cfg.SchemaDir))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
