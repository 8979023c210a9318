// Package watch re-runs analysis when source files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/layerlint/layerlint/internal/adapters/outbound/scanner"
)

// Config configures a Watcher.
type Config struct {
	// Root is the project directory to watch.
	Root string
	// Debounce is how long the watcher waits for more changes before
	// handing a batch over. Zero means 200ms.
	Debounce time.Duration
	// Supported filters the files of interest by slash-separated relative
	// path. Nil accepts every file.
	Supported func(relPath string) bool
	Logger    *slog.Logger
}

// Batch is a debounced set of changes, as sorted relative paths.
type Batch struct {
	Changed []string
	Removed []string
}

// Empty reports whether the batch carries no change.
func (b Batch) Empty() bool { return len(b.Changed) == 0 && len(b.Removed) == 0 }

// Watcher watches a project tree with fsnotify.
type Watcher struct {
	root      string
	debounce  time.Duration
	supported func(string) bool
	logger    *slog.Logger
	fsw       *fsnotify.Watcher

	pending map[string]fsnotify.Op
}

// New creates a Watcher and registers every directory below cfg.Root that
// the scanner would visit.
func New(cfg Config) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		root:      root,
		debounce:  cfg.Debounce,
		supported: cfg.Supported,
		logger:    cfg.Logger,
		fsw:       fsw,
		pending:   make(map[string]fsnotify.Op),
	}
	if w.debounce <= 0 {
		w.debounce = 200 * time.Millisecond
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers debounced batches to handle until ctx is done. handle runs on
// the watcher goroutine; events arriving meanwhile are queued.
func (w *Watcher) Run(ctx context.Context, handle func(ctx context.Context, b Batch)) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.record(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			if b := w.flush(); !b.Empty() {
				handle(ctx, b)
			}
		}
	}
}

// record queues a file event and reports whether it is of interest.
func (w *Watcher) record(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("watching new directory", "path", event.Name, "error", err)
			}
			return false
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if w.supported != nil && !w.supported(rel) {
		return false
	}

	w.pending[rel] = event.Op
	w.logger.Debug("file change detected", "path", rel, "op", event.Op.String())
	return true
}

func (w *Watcher) flush() Batch {
	var b Batch
	for rel := range w.pending {
		full := filepath.Join(w.root, filepath.FromSlash(rel))
		if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
			b.Removed = append(b.Removed, rel)
			continue
		}
		b.Changed = append(b.Changed, rel)
	}
	w.pending = make(map[string]fsnotify.Op)
	sort.Strings(b.Changed)
	sort.Strings(b.Removed)
	return b
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && scanner.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watching directory", "path", path, "error", err)
			return nil
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}
