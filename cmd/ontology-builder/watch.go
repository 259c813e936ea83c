package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/henboffman/ontology-builder-sub002/graph"
	"github.com/henboffman/ontology-builder-sub002/ingest"
	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/turtle"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var (
		into    string
		pattern string
	)

	cmd := &cobra.Command{
		Use:   "watch --into <ontology-id> [dir]",
		Short: "Watch a directory and re-import changed Turtle files",
		Long: `Watch monitors a directory tree for Turtle file changes and merges
each changed file into the target ontology. Files whose content is
unchanged are skipped. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if into == "" {
				return fmt.Errorf("--into is required")
			}
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			// Fail early if the target doesn't exist.
			if _, err := a.store.GetOntology(ctx, into); err != nil {
				return fmt.Errorf("load target ontology: %w", err)
			}

			if pattern == "" {
				pattern = a.cfg.Import.WatchPattern
			}

			watcher, err := ingest.NewWatcher(ingest.WatcherConfig{
				Root:    root,
				Pattern: pattern,
				Logger:  a.logger,
			})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer func() { _ = watcher.Stop() }()

			if a.cfg.Metrics.Addr != "" {
				serveMetrics(ctx, a)
			}

			a.logger.Info("watching for ontology files",
				"root", root, "pattern", pattern, "target", into)

			for {
				select {
				case <-ctx.Done():
					a.logger.Info("watch stopped")
					return nil
				case event, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					if event.Error != nil {
						a.logger.Warn("watch error", "error", event.Error)
						continue
					}
					a.handleWatchedFile(ctx, into, event)
				}
			}
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Target ontology ID")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob pattern for watched files (default from config)")
	return cmd
}

// handleWatchedFile merges one changed file. Failures are logged, never
// fatal; watch mode keeps running.
func (a *app) handleWatchedFile(ctx context.Context, into string, event ingest.WatchEvent) {
	parsed, err := turtle.Parse(strings.NewReader(string(event.Data)))
	a.metrics.ObserveParse("turtle", err)
	if err != nil {
		a.logger.Warn("parse failed", "path", event.Path, "error", err)
		return
	}

	target, err := a.store.GetOntology(ctx, into)
	if err != nil {
		a.logger.Warn("load target failed", "error", err)
		return
	}

	preview := merge.NewPlanner(nil).Plan(target, parsed)
	if preview.Empty() {
		a.logger.Debug("no changes", "path", event.Path)
		return
	}

	executor := merge.NewExecutor(a.store, a.logger)
	result, err := executor.MergeIntoExisting(ctx, into, preview, a.executorOptions(true))
	if err != nil {
		a.logger.Warn("merge failed", "path", event.Path, "error", err)
		return
	}

	a.metrics.ObserveMergeItems("watch", result.Succeeded, result.Failed)
	if err := graph.PublishImportResult(ctx, a.graphClient, result); err != nil {
		a.logger.Warn("graph publish failed", "error", err)
	}

	a.logger.Info("merged watched file",
		"path", event.Path,
		"succeeded", result.Succeeded,
		"failed", result.Failed)
}

func serveMetrics(ctx context.Context, a *app) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	server := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}

	go func() {
		a.logger.Info("metrics endpoint listening", "addr", a.cfg.Metrics.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Warn("metrics server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
