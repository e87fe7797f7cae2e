// Package watch re-runs generation when Go sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a run.
const DefaultDebounce = 200 * time.Millisecond

// Logger is the subset of the generator logger the watcher uses.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Options configures a Watcher.
type Options struct {
	// Root is the directory tree to watch.
	Root string
	// Suffix marks generated files; changes to them never trigger a run.
	Suffix   string
	Debounce time.Duration
	Logger   Logger
}

// Watcher coalesces source changes into runs.
type Watcher struct {
	opts    Options
	fsw     *fsnotify.Watcher
	trigger chan struct{}
}

// New starts watching every directory below opts.Root except hidden,
// vendor, testdata and underscore-prefixed ones.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{opts: opts, fsw: fsw, trigger: make(chan struct{}, 1)}
	if err := w.addTree(opts.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Skipped reports whether the directory name is never watched.
func Skipped(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && Skipped(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Relevant reports whether a change to name should trigger a run: Go
// sources other than generated files and tests.
func Relevant(name, suffix string) bool {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".go") || strings.HasSuffix(base, "_test.go") {
		return false
	}
	if suffix != "" && strings.HasSuffix(base, suffix) {
		return false
	}
	return !strings.HasPrefix(base, ".")
}

// Trigger requests a run as if a source had changed.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run calls run once, then again after every burst of relevant changes,
// until ctx is done. Errors returned by run are logged and do not stop the
// watcher.
func (w *Watcher) Run(ctx context.Context, run func(ctx context.Context) error) error {
	w.call(ctx, run)

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.opts.Debounce)
		} else {
			timer.Reset(w.opts.Debounce)
		}
		fire = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.trigger:
			schedule()
		case <-fire:
			fire = nil
			w.call(ctx, run)
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log().Error("Watch error", "error", err)
		}
	}
}

// handle registers new directories and reports whether event is relevant.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if Skipped(info.Name()) {
				return false
			}
			if err := w.addTree(event.Name); err != nil {
				w.log().Error("Failed to watch new directory", "dir", event.Name, "error", err)
			}
			return true
		}
	}
	if event.Op == fsnotify.Chmod || !Relevant(event.Name, w.opts.Suffix) {
		return false
	}
	w.log().Debug("Source changed", "file", event.Name, "op", event.Op.String())
	return true
}

func (w *Watcher) call(ctx context.Context, run func(ctx context.Context) error) {
	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.log().Error("Generation failed", "error", err)
	}
}

func (w *Watcher) log() Logger {
	if w.opts.Logger == nil {
		return nopLogger{}
	}
	return w.opts.Logger
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Debug(string, ...any) {}
