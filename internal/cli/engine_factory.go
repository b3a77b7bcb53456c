package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	turing "github.com/WizardOfMenlo/turing-machine"
	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/file"
	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/memory"
	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/redis"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/observability"
	"github.com/WizardOfMenlo/turing-machine/pkg/persistence/middleware"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
)

// createLogger builds the logger for cfg.LogLevel. It writes to w, normally
// stderr, so that machine output on stdout stays clean.
func createLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return logging.NewWriter(w, level), nil
}

// engineOptions translates cfg into facade options. Debug logging also
// attaches per-step logging hooks.
func engineOptions(cfg Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) ([]turing.Option, error) {
	mode, err := domain.ParseMode(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	policy, err := domain.ParseHeaderPolicy(cfg.HeaderPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	opts := []turing.Option{
		turing.WithLogger(logger),
		turing.WithMode(mode),
		turing.WithHeaderPolicy(policy),
		turing.WithStepLimit(cfg.StepLimit),
		turing.WithTraceWindow(cfg.TraceWindow),
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, turing.WithLifecycleHooks(observability.LoggingHooks(logger, true)))
	}
	for _, h := range hooks {
		opts = append(opts, turing.WithLifecycleHooks(h))
	}
	return opts, nil
}

// createEngine initializes an engine with standard CLI conventions.
func createEngine(cfg Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*turing.Engine, error) {
	opts, err := engineOptions(cfg, logger, hooks...)
	if err != nil {
		return nil, err
	}
	return turing.New(opts...), nil
}

// createStore picks the record store: Redis when a URL is configured,
// a directory when StoreDir is set, memory otherwise. Tape clipping and
// encryption wrap the backend when configured. The returned closer
// releases connections and is never nil.
func createStore(ctx context.Context, cfg Config, logger *slog.Logger) (ports.RunResultStore, func() error, error) {
	store, closer, err := createBackend(ctx, cfg, logger)
	if err != nil {
		return nil, closer, err
	}

	var mws []middleware.Middleware
	if cfg.RecordTapeRadius > 0 {
		mws = append(mws, middleware.NewTapeWindowMiddleware(cfg.RecordTapeRadius))
	}
	enc, err := cfg.encryptionConfig()
	if err != nil {
		_ = closer()
		return nil, func() error { return nil }, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if enc != nil {
		encrypt, err := middleware.NewEncryptionMiddleware(*enc)
		if err != nil {
			_ = closer()
			return nil, func() error { return nil }, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		mws = append(mws, encrypt)
		logger.Info("encrypting run records", "fallback_keys", len(enc.FallbackKeys))
	}
	return middleware.Chain(store, mws...), closer, nil
}

func createBackend(ctx context.Context, cfg Config, logger *slog.Logger) (ports.RunResultStore, func() error, error) {
	noop := func() error { return nil }

	switch {
	case cfg.RedisURL != "":
		var opts []redis.Option
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		store, err := redis.New(cfg.RedisURL, opts...)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("using redis run store", "ttl", cfg.RedisTTL)
		return store, store.Close, nil
	case cfg.StoreDir != "":
		logger.Info("using file run store", "dir", cfg.StoreDir)
		return file.NewStore(cfg.StoreDir), noop, nil
	default:
		return memory.NewStore(), noop, nil
	}
}

// createLoader serves *.tm descriptions from cfg.MachinesDir.
func createLoader(cfg Config) ports.MachineLoader {
	return file.NewLoader(cfg.MachinesDir)
}
