package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/henboffman/ontology-builder-sub002/config"
	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/metric"
	"github.com/henboffman/ontology-builder-sub002/storage"
	"github.com/c360studio/semstreams/natsclient"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	configPath   string
	storeBackend string
	logLevel     string
}

// app bundles the wired dependencies a subcommand needs.
type app struct {
	cfg     *config.Config
	store   storage.Store
	logger  *slog.Logger
	metrics *metric.Metrics

	graphClient *natsclient.Client
	cleanup     []func()
}

// newApp builds the application from config and flags.
func newApp(ctx context.Context, opts *globalOptions) (*app, error) {
	logger := newLogger(opts.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metric.NewMetrics(),
	}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	if cfg.NATS.PublishGraph {
		if err := a.connectGraphClient(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// Close releases store and NATS resources in reverse order.
func (a *app) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

func loadConfig(opts *globalOptions, logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)

	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = loader.LoadFile(opts.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Flag overrides config file.
	if opts.storeBackend != "" {
		cfg.Store.Backend = opts.storeBackend
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store.Backend {
	case "memory":
		a.store = storage.NewMemoryStore()

	case "sqlite":
		store, err := storage.NewSQLiteStore(a.cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.store = store
		a.cleanup = append(a.cleanup, func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("closing sqlite store", slog.String("error", err.Error()))
			}
		})

	case "nats":
		nc, err := nats.Connect(a.cfg.NATS.URL,
			nats.Name(appName),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(time.Second),
		)
		if err != nil {
			return wrapNATSError(err, a.cfg.NATS.URL)
		}
		a.cleanup = append(a.cleanup, nc.Close)

		js, err := jetstream.New(nc)
		if err != nil {
			return fmt.Errorf("create JetStream context: %w", err)
		}
		store, err := storage.NewKVStore(ctx, js)
		if err != nil {
			return fmt.Errorf("open KV store: %w", err)
		}
		a.store = store

	default:
		return fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
	}

	a.logger.Debug("store ready", slog.String("backend", a.cfg.Store.Backend))
	return nil
}

func (a *app) connectGraphClient(ctx context.Context) error {
	url := a.cfg.NATS.URL
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		url = envURL
	}
	if url == "" {
		url = "nats://localhost:4222"
	}

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return fmt.Errorf("create NATS client: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return wrapNATSError(err, url)
	}

	a.graphClient = client
	a.cleanup = append(a.cleanup, func() {
		if err := client.Close(context.Background()); err != nil {
			a.logger.Warn("closing NATS client", slog.String("error", err.Error()))
		}
	})
	a.logger.Debug("graph publishing enabled", slog.String("url", url))
	return nil
}

// executorOptions builds merge options with progress reported to stderr.
func (a *app) executorOptions(quiet bool) merge.Options {
	opts := merge.Options{Pace: a.cfg.Import.Pace}
	if !quiet {
		opts.Progress = func(step, total int, item string) {
			fmt.Fprintf(os.Stderr, "\r[%d/%d] %s\033[K", step, total, item)
			if step == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
	return opts
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// wrapNATSError provides guidance when a NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Set nats.url in the config file or the NATS_URL environment variable.`, err, url)
	}
	return fmt.Errorf("NATS connection failed: %w", err)
}
