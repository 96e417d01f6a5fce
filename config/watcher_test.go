package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	// let the watcher register before the test edits the file
	time.Sleep(50 * time.Millisecond)
}

// rewrite atomically replaces the file with a newer mtime so both watch
// modes see exactly one complete edit.
func rewrite(t *testing.T, path, content string, bump time.Duration) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	future := time.Now().Add(bump)
	require.NoError(t, os.Chtimes(tmp, future, future))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatcher(t *testing.T) {
	quiet := WithWatchLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, mode := range []struct {
		name string
		opts []WatcherOption
	}{
		{"events", []WatcherOption{quiet}},
		{"polling", []WatcherOption{quiet, WithPolling(), WithPollInterval(10 * time.Millisecond)}},
	} {
		t.Run(mode.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, "tagkit.yaml", "tagging:\n  max_words: 2\n")

			var mu sync.Mutex
			var seen []int
			opts := append(mode.opts, WithOnChange(func(f File) {
				mu.Lock()
				seen = append(seen, f.Tagging.MaxWords)
				mu.Unlock()
			}))

			w, err := NewWatcher(path, opts...)
			require.NoError(t, err)
			assert.Equal(t, 2, w.Current().Tagging.MaxWords)
			assert.Equal(t, path, w.Path())
			startWatcher(t, w)

			rewrite(t, path, "tagging:\n  max_words: 5\n", time.Second)
			require.Eventually(t, func() bool {
				return w.Current().Tagging.MaxWords == 5
			}, 2*time.Second, 10*time.Millisecond)

			// an invalid edit keeps the last good config
			rewrite(t, path, "tagging:\n  max_words: -1\n", 2*time.Second)
			time.Sleep(100 * time.Millisecond)
			assert.Equal(t, 5, w.Current().Tagging.MaxWords)

			rewrite(t, path, "tagging:\n  max_words: 7\n", 3*time.Second)
			require.Eventually(t, func() bool {
				return w.Current().Tagging.MaxWords == 7
			}, 2*time.Second, 10*time.Millisecond)

			mu.Lock()
			defer mu.Unlock()
			assert.Contains(t, seen, 5)
			assert.Equal(t, 7, seen[len(seen)-1])
			assert.NotContains(t, seen, -1)
		})
	}
}

func TestNewWatcher_Errors(t *testing.T) {
	clearEnv(t)
	_, err := NewWatcher("")
	assert.Error(t, err)

	_, err = NewWatcher(writeFile(t, "bad.yaml", "tagging:\n  max_words: 0\n"))
	assert.Error(t, err)
}
