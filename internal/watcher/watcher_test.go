package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/gitwip/internal/logger"
)

func TestIgnored(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path     string
		expected bool
	}{
		"PlainFile":       {path: "main.go", expected: false},
		"NestedFile":      {path: "src/pkg/main.go", expected: false},
		"GitDir":          {path: ".git/index", expected: true},
		"HiddenFile":      {path: ".env", expected: true},
		"HiddenNestedDir": {path: "src/.cache/x", expected: true},
		"DotInName":       {path: "src/file.test.js", expected: false},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Ignored(tc.path))
		})
	}
}

// waitFor reads events until one for want arrives, failing on hidden paths.
func waitFor(t *testing.T, w *Watcher, want string) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "event channel closed before %s", want)
			require.False(t, Ignored(ev.Path), "hidden path reported: %s", ev.Path)
			if ev.Path == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event on %s", want)
		}
	}
}

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()

	w, err := New(root, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, w.Close())
		<-done
	})
	return w
}

func TestWatcherReportsChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "index"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main\n"), 0644))
	waitFor(t, w, "src/main.go")

	require.NoError(t, os.Remove(filepath.Join(root, "src", "main.go")))
	waitFor(t, w, "src/main.go")
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0755))
	waitFor(t, w, "pkg")

	// the directory watch is added before the Create event is delivered
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "lib.go"), []byte("package pkg\n"), 0644))
	waitFor(t, w, "pkg/lib.go")
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, w.Run(ctx))
	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestNewMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing"), logger.Nop())
	assert.Error(t, err)
}
