// Package watch reloads a graph file when it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temp file and renaming it over the
// original are still seen. Bursts of events are collapsed into one reload
// after a quiet period.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/wikigraph/pkg/graph"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives each successfully parsed graph.
type ReloadFunc func(ctx context.Context, g *graph.Graph) error

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last event before reloading.
	Debounce time.Duration

	// LinkMap configures parsing of link-map files.
	LinkMap graph.LinkMapOptions
}

// Watcher reloads one graph file.
type Watcher struct {
	path    string
	opts    Options
	reload  ReloadFunc
	logger  *log.Logger
	fsw     *fsnotify.Watcher
	reloads atomic.Int64
	failed  atomic.Int64
}

// New watches path. Run must be called to start delivering reloads.
func New(path string, reload ReloadFunc, opts Options, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, opts: opts, reload: reload, logger: logger, fsw: fsw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int { return int(w.reloads.Load()) }

// Failures returns the number of reloads that failed to parse or apply.
func (w *Watcher) Failures() int { return int(w.failed.Load()) }

// Run delivers reloads until ctx is done. It closes the underlying
// watcher on return. A failed reload is logged and the previous graph
// stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("graph file changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.load(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// Close stops watching without waiting for Run.
func (w *Watcher) Close() error { return w.fsw.Close() }

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) load(ctx context.Context) {
	g, err := graph.ReadFile(w.path, w.opts.LinkMap)
	if err != nil {
		w.failed.Add(1)
		w.logger.Warn("reload skipped", "path", w.path, "err", err)
		return
	}
	if err := w.reload(ctx, g); err != nil {
		w.failed.Add(1)
		w.logger.Warn("reload rejected", "path", w.path, "err", err)
		return
	}
	w.reloads.Add(1)
	w.logger.Info("graph reloaded", "path", w.path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
}
