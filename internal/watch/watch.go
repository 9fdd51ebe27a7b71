// Package watch drives the §4.6 incremental updater from filesystem change
// notifications instead of requiring an explicit re-scan call, mirroring
// the teacher's own internal/watcher package: one fsnotify.Watcher, a
// debounced pending-file map, and a ticker-driven flush loop.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/retrieved/thicket/internal/config"
	"github.com/retrieved/thicket/internal/engine"
)

// Watcher monitors one tree's root directory and feeds add/modify/remove
// events to the engine's manifest-driven updater.
type Watcher struct {
	engine *engine.Engine
	tree   config.TreeConfig

	debounce time.Duration
	onEvent  func(path string, err error)

	fs      *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]time.Time
}

// Config configures a Watcher.
type Config struct {
	Engine        *engine.Engine
	Tree          config.TreeConfig
	DebounceDelay time.Duration // default 100ms
	OnEvent       func(path string, err error)
}

// New returns a Watcher for cfg. Start must be called to begin watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("watch: engine is required")
	}
	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}
	return &Watcher{
		engine:   cfg.Engine,
		tree:     cfg.Tree,
		debounce: debounce,
		onEvent:  cfg.OnEvent,
		pending:  make(map[string]time.Time),
	}, nil
}

// Start begins watching the tree's root directory and its subdirectories.
// It blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	w.fs = fw
	defer fw.Close()

	if err := w.addRecursive(w.tree.Root); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.tree.Root, err)
	}

	go w.flushLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	rel, err := filepath.Rel(w.tree.Root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(ev.Name)
			return
		}
	}
	if !w.tree.Included(rel) {
		return
	}

	switch {
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.schedule(ev.Name)
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		err := w.engine.RemoveDocument(w.tree.Name, rel)
		w.report(rel, err)
	}
}

func (w *Watcher) schedule(abs string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[abs] = time.Now()
}

func (w *Watcher) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flushReady()
		}
	}
}

func (w *Watcher) flushReady() {
	now := time.Now()
	w.mu.Lock()
	var ready []string
	for abs, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, abs)
			delete(w.pending, abs)
		}
	}
	w.mu.Unlock()

	for _, abs := range ready {
		rel, err := filepath.Rel(w.tree.Root, abs)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			w.report(rel, err)
			continue
		}
		err = w.engine.IndexDocument(w.tree.Name, rel, content, info.ModTime().Unix(), !w.tree.Global)
		w.report(rel, err)
	}
}

func (w *Watcher) report(path string, err error) {
	if w.onEvent != nil {
		w.onEvent(path, err)
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fs.Add(path); err != nil {
				w.report(path, err)
			}
		}
		return nil
	})
}
