// Package watch rebuilds the report when its inputs change.
//
// Filesystem events are debounced and handed to a single worker, so builds
// never overlap: while one rebuild runs, at most one more is queued.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/clrsreport/internal/logfields"
)

// DefaultDebounce is the quiet period before a burst of events triggers a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc runs one build. Its error is logged and the watch continues.
type RebuildFunc func(ctx context.Context) error

// Watcher observes files and directory trees and triggers rebuilds.
type Watcher struct {
	files    map[string]bool // exact file targets
	dirs     []string        // recursive directory targets
	ignore   []string
	debounce time.Duration
	rebuild  RebuildFunc
	logger   *slog.Logger
	ready    chan struct{}
}

// New returns a Watcher for paths. Directories are watched recursively;
// files are matched exactly. Paths that do not exist are skipped with a warning.
func New(rebuild RebuildFunc, paths ...string) *Watcher {
	w := &Watcher{
		files:    make(map[string]bool),
		debounce: DefaultDebounce,
		rebuild:  rebuild,
		logger:   slog.Default(),
		ready:    make(chan struct{}),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		st, err := os.Stat(abs)
		if err != nil {
			w.logger.Warn("Watch target missing; skipping", logfields.Path(abs))
			continue
		}
		if st.IsDir() {
			w.dirs = append(w.dirs, abs)
		} else {
			w.files[abs] = true
		}
	}
	return w
}

// WithDebounce overrides the quiet period.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// WithIgnore excludes directory trees, typically the output directory.
func (w *Watcher) WithIgnore(dirs ...string) *Watcher {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if abs, err := filepath.Abs(d); err == nil {
			d = abs
		}
		w.ignore = append(w.ignore, filepath.Clean(d))
	}
	return w
}

// WithLogger replaces the logger.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Ready is closed once every target is registered with the OS watcher.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is canceled. An in-flight rebuild is waited for.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.dirs) == 0 && len(w.files) == 0 {
		return fmt.Errorf("watch: nothing to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, d := range w.dirs {
		w.addDirsRecursive(fw, d)
	}
	parents := map[string]bool{}
	for f := range w.files {
		parents[filepath.Dir(f)] = true
	}
	for p := range parents {
		if err := fw.Add(p); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(p), logfields.Error(err))
		}
	}

	requests := make(chan struct{}, 1)
	deb := newDebouncer(w.debounce, func() {
		select {
		case requests <- struct{}{}:
		default:
		}
	})
	defer deb.stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, requests)
	}()
	defer wg.Wait()

	close(w.ready)
	w.logger.Info("Watching for changes", logfields.Count(len(w.dirs)+len(w.files)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, deb.trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) worker(ctx context.Context, requests <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			w.logger.Info("Change detected; rebuilding report")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Warn("rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if !w.Relevant(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// Relevant reports whether a change to path should trigger a rebuild.
func (w *Watcher) Relevant(path string) bool {
	path = filepath.Clean(path)
	if shouldIgnoreName(filepath.Base(path)) {
		return false
	}
	for _, ig := range w.ignore {
		if within(ig, path) {
			return false
		}
	}
	if w.files[path] {
		return true
	}
	for _, d := range w.dirs {
		if within(d, path) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.ignored(path)) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	for _, ig := range w.ignore {
		if within(ig, path) {
			return true
		}
	}
	return false
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// shouldIgnoreName filters hidden files and editor droppings.
func shouldIgnoreName(base string) bool {
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
