// Package cli provides the startup steps shared by the golftracker commands:
// environment, configuration, logging, and backend wiring.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"golftracker/internal/backend"
	"golftracker/internal/cache"
	"golftracker/internal/config"
	"golftracker/internal/core"
	applog "golftracker/internal/log"
	"golftracker/internal/services"
)

// LoadEnvFile loads a .env file from the working directory when present.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and makes it the default.
func SetupLogger(cfg *config.Config, w io.Writer) *applog.Logger {
	lc := applog.DefaultConfig()
	lc.Level = applog.ParseLevel(cfg.LogLevel)
	lc.Format = applog.Format(cfg.LogFormat)
	if w != nil {
		lc.Output = w
	}

	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig reads the environment, applies overrides in order,
// then validates the result.
func LoadAndValidateConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	return cfg, nil
}

// InitBackend opens the store selected by cfg. The caller must Close the result.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize backend",
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldError, err)
		return nil, err
	}
	return res, nil
}

// NewEngine wires store into an engine, adding the snapshot cache when
// cfg enables it.
func NewEngine(cfg *config.Config, store backend.Backend, logger *applog.Logger) *services.Engine {
	opts := []services.Option{services.WithLogger(logger)}
	if cfg.QueryCacheSize > 0 {
		opts = append(opts, services.WithCache(cache.NewLRUCache[[]core.Round](cfg.QueryCacheSize, cfg.QueryCacheTTL)))
	}
	return services.NewEngine(store, opts...)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
