package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the Turtle directory watcher.
type WatcherConfig struct {
	// Root is the directory to watch recursively.
	Root string

	// Pattern is a doublestar glob, relative to Root, selecting which
	// files trigger imports. Defaults to "**/*.ttl".
	Pattern string

	// DebounceDelay is how long to wait for more changes before
	// emitting events.
	DebounceDelay time.Duration

	// Logger for watch events.
	Logger *slog.Logger
}

// WatchEvent is one changed Turtle file ready for re-import.
type WatchEvent struct {
	// Path is the file path relative to the watch root.
	Path string

	// Data is the file content, already size-checked.
	Data []byte

	// Error is set when the file could not be read or exceeded the
	// size cap.
	Error error
}

// Watcher watches a directory tree for Turtle file changes. Unchanged
// content (by hash) is skipped so editors that rewrite files on save
// don't trigger redundant imports.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]struct{}

	hashMu sync.RWMutex
	hashes map[string]string

	events chan WatchEvent
}

// NewWatcher creates a watcher for the configured root.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Pattern == "" {
		config.Pattern = "**/*.ttl"
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 250 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]struct{}),
		hashes:  make(map[string]string),
		events:  make(chan WatchEvent, 64),
	}, nil
}

// Events returns the channel of watch events.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching. It returns once watches are established; event
// processing runs until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}
	go w.processEvents(ctx)

	w.logger.Info("turtle watcher started",
		"root", w.config.Root,
		"pattern", w.config.Pattern)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.events)
	return w.watcher.Close()
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return
	}
	matched, err := doublestar.Match(w.config.Pattern, filepath.ToSlash(rel))
	if err != nil || !matched {
		return
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.hashMu.Lock()
		delete(w.hashes, rel)
		w.hashMu.Unlock()
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = struct{}{}
	w.pendingMu.Unlock()
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := make([]string, 0, len(w.pending))
	for path := range w.pending {
		toProcess = append(toProcess, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, path := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}
		rel, _ := filepath.Rel(w.config.Root, path)

		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			w.sendEvent(WatchEvent{Path: rel, Error: err})
			continue
		}
		data, err := ReadAll(f)
		f.Close()
		if err != nil {
			w.sendEvent(WatchEvent{Path: rel, Error: err})
			continue
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])

		w.hashMu.Lock()
		unchanged := w.hashes[rel] == hash
		w.hashes[rel] = hash
		w.hashMu.Unlock()
		if unchanged {
			continue
		}

		w.sendEvent(WatchEvent{Path: rel, Data: data})
	}
}

func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
	default:
		w.logger.Warn("event channel full, dropping event", "path", event.Path)
	}
}
