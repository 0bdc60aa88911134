package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathpop/internal/config"
	"github.com/abhisek/mathpop/internal/flags"
	"github.com/abhisek/mathpop/internal/llm"
	"github.com/abhisek/mathpop/internal/logging"
	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/session"
	"github.com/abhisek/mathpop/internal/store"
)

// newLogger logs to the configured file. Without one, the TUI logs to
// the default state file and everything else to stderr.
func newLogger(cfg config.Config, tui bool) (*slog.Logger, io.Closer, error) {
	opts := logging.Options{Level: cfg.Log.Level, Path: cfg.Log.Path, Writer: os.Stderr}
	if opts.Path == "" && tui {
		p, err := logging.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		opts.Path = p
	}
	return logging.New(opts)
}

func openStore(cmd *cobra.Command, cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newAdaptive builds the generative producer, or returns nil with a
// warning on stderr when no LLM provider is configured.
func newAdaptive(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) problemgen.Producer {
	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), logger)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			logger.Warn("LLM provider setup failed", "error", err)
		}
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI mode will be unavailable; playing from the problem bank.")
		return nil
	}
	return problemgen.NewLLMProducer(provider, cfg.ProducerConfig(), logger)
}

// noticeFlags selects the flag backend. The first result hands out flags
// per client id; the second releases the backend.
func noticeFlags(ctx context.Context, cfg config.Config, st *store.Store) (func(string) session.NoticeFlags, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Flags.Backend {
	case config.BackendRedis:
		client, err := newRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		ttl := cfg.RedisTTL()
		return func(id string) session.NoticeFlags {
			return flags.NewRedisFlags(client, cfg.Flags.Redis.Prefix, id, ttl)
		}, client.Close, nil
	case config.BackendMemory:
		return func(string) session.NoticeFlags { return flags.NewMemory() }, nop, nil
	default:
		settings := st.Settings()
		return func(string) session.NoticeFlags { return settings }, nop, nil
	}
}

func newRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Flags.Redis.Addr,
		Password: cfg.Flags.Redis.Password,
		DB:       cfg.Flags.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Flags.Redis.Addr, err)
	}
	return client, nil
}
