// Package watch regenerates the reference document when its inputs change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of editor writes into one regeneration.
const DefaultDebounce = 200 * time.Millisecond

// RegenerateFunc produces the document once. Errors are logged and do not
// stop the watcher.
type RegenerateFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// DebounceMs is the quiet period after the last event before a
	// regeneration starts. Zero means DefaultDebounce.
	DebounceMs int

	// Include adds doublestar patterns whose matches also trigger a
	// regeneration. Relative patterns are resolved against Root.
	Include []string

	// Root resolves relative files and patterns. Empty means the working
	// directory.
	Root string

	// Output is the generated document. Writes to it and to its temporary
	// siblings never trigger a regeneration, even when an include pattern
	// covers them.
	Output string
}

// Watcher watches the catalog, the preamble and any include patterns, and
// calls a RegenerateFunc after each burst of changes.
//
// Regenerations never overlap: a change that arrives while one is running
// schedules another after it finishes.
type Watcher struct {
	watcher    *fsnotify.Watcher
	regenerate RegenerateFunc
	logger     *slog.Logger
	debounce   time.Duration

	// files are exact paths, patterns are absolute doublestar globs.
	files    map[string]struct{}
	patterns []string

	// output and outputTmp exclude the document and its in-flight temp files.
	output    string
	outputTmp string

	// Debouncing
	pending    *time.Timer
	debounceMu sync.Mutex

	// Regenerations
	runMu sync.Mutex
	runs  int
	fails int

	// Lifecycle
	ctx      context.Context
	cancel   context.CancelFunc
	stopChan chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
	done     sync.WaitGroup
}

// New creates a Watcher for files plus opts.Include. Empty file entries are
// skipped, so an unset preamble path can be passed as is.
func New(files []string, opts Options, fn RegenerateFunc, logger *slog.Logger) (*Watcher, error) {
	if fn == nil {
		return nil, errors.New("regenerate function is required")
	}
	root := opts.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}

	w := &Watcher{
		regenerate: fn,
		logger:     logger,
		debounce:   time.Duration(opts.DebounceMs) * time.Millisecond,
		files:      make(map[string]struct{}),
		stopChan:   make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	for _, f := range files {
		if f == "" {
			continue
		}
		w.files[absolute(root, f)] = struct{}{}
	}
	if opts.Output != "" {
		w.output = absolute(root, opts.Output)
		w.outputTmp = filepath.Join(filepath.Dir(w.output), "."+filepath.Base(w.output)+".tmp-")
	}
	for _, p := range opts.Include {
		abs := filepath.ToSlash(absolute(root, p))
		if !doublestar.ValidatePattern(abs) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
		w.patterns = append(w.patterns, abs)
	}
	if len(w.files) == 0 && len(w.patterns) == 0 {
		return nil, errors.New("nothing to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fsw
	return w, nil
}

func absolute(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// Start adds the watches and begins the event loop. It does not run an
// initial regeneration.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.started {
		return errors.New("watcher already started")
	}

	for _, dir := range w.watchDirs() {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", "path", dir)
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.started = true
	w.done.Add(1)
	go w.eventLoop()

	w.logger.Info("watcher started", "files", len(w.files), "patterns", len(w.patterns), "debounce_ms", w.debounce.Milliseconds())
	return nil
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

// Stop stops the watcher and waits for a running regeneration to return.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.debounceMu.Lock()
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.done.Wait()

	// Wait out a regeneration already in flight.
	w.runMu.Lock()
	w.runMu.Unlock()

	w.logger.Info("watcher stopped")
	return err
}

// watchDirs returns the parent directory of every file and the static base
// of every include pattern. Recursive patterns also watch subdirectories.
func (w *Watcher) watchDirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	for f := range w.files {
		add(filepath.Dir(f))
	}
	for _, p := range w.patterns {
		base, rest := doublestar.SplitPattern(p)
		base = filepath.FromSlash(base)
		if info, err := os.Stat(base); err != nil || !info.IsDir() {
			w.logger.Warn("include pattern base is not a directory", "pattern", p)
			continue
		}
		add(base)
		if !recursive(rest) {
			continue
		}
		filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() || path == base {
				return nil
			}
			if shouldIgnore(filepath.Base(path)) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
	}
	return dirs
}

func recursive(pattern string) bool {
	return strings.Contains(pattern, "**")
}

// Matches reports whether a change to path should trigger a regeneration.
// Pattern matches below dependency or build directories are ignored, as are
// the output document and its temp files.
func (w *Watcher) Matches(path string) bool {
	path = filepath.Clean(path)
	if _, ok := w.files[path]; ok {
		return true
	}
	if w.isOutput(path) {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, p := range w.patterns {
		base, _ := doublestar.SplitPattern(p)
		if !strings.HasPrefix(slashed, base) || shouldIgnore(slashed[len(base):]) {
			continue
		}
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) isOutput(path string) bool {
	if w.output == "" {
		return false
	}
	return path == w.output || strings.HasPrefix(path, w.outputTmp)
}

func (w *Watcher) eventLoop() {
	defer w.done.Done()
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if event.Op.Has(fsnotify.Create) && w.underRecursivePattern(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldIgnore(filepath.Base(event.Name)) {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch directory", "path", event.Name, "error", err)
			}
			return
		}
	}
	if !w.Matches(event.Name) {
		return
	}
	w.logger.Debug("file event", "op", event.Op.String(), "file", event.Name)
	w.schedule()
}

func (w *Watcher) underRecursivePattern(path string) bool {
	slashed := filepath.ToSlash(filepath.Clean(path))
	for _, p := range w.patterns {
		base, rest := doublestar.SplitPattern(p)
		if recursive(rest) && len(slashed) > len(base) && strings.HasPrefix(slashed, base) {
			return true
		}
	}
	return false
}

// schedule restarts the debounce timer. Only the last event of a burst
// triggers a regeneration.
func (w *Watcher) schedule() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.mu.Lock()
	stopped := w.stopped
	ctx := w.ctx
	w.mu.Unlock()
	if stopped || ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := w.regenerate(ctx)
	w.runs++
	if err != nil {
		w.fails++
		w.logger.Error("regeneration failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	w.logger.Debug("regeneration finished", "duration_ms", time.Since(start).Milliseconds())
}

// shouldIgnore reports whether a relative slash path passes through a
// dependency or build directory.
func shouldIgnore(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		switch seg {
		case "node_modules", ".git", "dist", "build", ".next":
			return true
		}
	}
	return false
}

// Stats contains watcher statistics.
type Stats struct {
	Regenerations int
	Failures      int
	IsRunning     bool
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.runMu.Lock()
	runs, fails := w.runs, w.fails
	w.runMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	return Stats{Regenerations: runs, Failures: fails, IsRunning: running}
}
