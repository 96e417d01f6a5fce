package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the polling period used when file events are unavailable.
const DefaultPollInterval = time.Second

// Watcher keeps the latest valid configuration of one file.
type Watcher struct {
	path     string
	current  atomic.Pointer[File]
	logger   *slog.Logger
	interval time.Duration
	polling  bool
	onChange func(File)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the logger for reload diagnostics.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithPollInterval sets the polling period for the fallback watcher.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithPolling forces polling instead of file system events.
func WithPolling() WatcherOption {
	return func(w *Watcher) {
		w.polling = true
	}
}

// WithOnChange registers fn to be called after each successful reload.
func WithOnChange(fn func(File)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// NewWatcher loads path and returns a Watcher serving it. The initial load
// must succeed.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     path,
		logger:   slog.Default(),
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.current.Store(&f)
	return w, nil
}

// Current returns the latest valid configuration.
func (w *Watcher) Current() File {
	return *w.current.Load()
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches the file until ctx is done. It uses fsnotify on the parent
// directory, so atomic saves (write then rename) are seen, and falls back to
// polling the modification time when a watcher cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	if w.polling {
		return w.poll(ctx)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("file events unavailable, polling config", slog.Any("error", err))
		return w.poll(ctx)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Warn("cannot watch config directory, polling", slog.Any("error", err))
		return w.poll(ctx)
	}

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last time.Time
	if info, err := os.Stat(w.path); err == nil {
		last = info.ModTime()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil || !info.ModTime().After(last) {
				continue
			}
			last = info.ModTime()
			w.reload()
		}
	}
}

// reload swaps in the file's current contents if they load cleanly.
func (w *Watcher) reload() {
	f, err := Load(w.path)
	if err != nil {
		w.logger.Warn("ignoring invalid config edit",
			slog.String("path", w.path),
			slog.Any("error", err))
		return
	}
	w.current.Store(&f)
	w.logger.Info("config reloaded", slog.String("path", w.path))
	if w.onChange != nil {
		w.onChange(f)
	}
}
