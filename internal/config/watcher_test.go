package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaweb/internal/observability"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "app.yaml"), nil,
		WithDebounceDelay(10*time.Millisecond),
		WithLogger(observability.NopLogger()),
		WithErrorCallback(func(error) {}),
		WithSourceDirs(dir),
		WithSourceCallback(func(string) {}),
	)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.Equal(t, 10*time.Millisecond, w.debounceDelay)
	assert.NotNil(t, w.errorCallback)
	assert.NotNil(t, w.sourceCallback)
	assert.Contains(t, w.sourceDirs, dir)
	assert.Nil(t, w.GetLastConfig())
}

func TestWatcher_Start(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), validConfigYAML)
	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()), "second start is a no-op")

	cfg := w.GetLastConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "test-app", cfg.Metadata.Name)

	require.NoError(t, w.Stop())
}

func TestWatcher_Start_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), invalidConfigYAML)
	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.Error(t, w.Start(context.Background()))
	assert.Nil(t, w.GetLastConfig())
	assert.NoError(t, w.Stop())
}

func TestWatcher_FileChange(t *testing.T) {
	// Not parallel due to file system operations and timing

	dir := t.TempDir()
	path := writeConfig(t, dir, validConfigYAML)

	var mu sync.Mutex
	var received *AppConfig
	called := make(chan struct{}, 1)

	w, err := NewWatcher(path, func(cfg *AppConfig) {
		mu.Lock()
		received = cfg
		mu.Unlock()
		select {
		case called <- struct{}{}:
		default:
		}
	}, WithDebounceDelay(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, `
apiVersion: avaweb.io/v1
kind: Application
metadata:
  name: updated-app
`)

	select {
	case <-called:
		mu.Lock()
		require.NotNil(t, received)
		assert.Equal(t, "updated-app", received.Metadata.Name)
		mu.Unlock()
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not called after file change")
	}

	assert.Equal(t, "updated-app", w.GetLastConfig().Metadata.Name)
	require.NoError(t, w.Stop())
}

func TestWatcher_FileChange_InvalidConfig(t *testing.T) {
	// Not parallel due to file system operations and timing

	dir := t.TempDir()
	path := writeConfig(t, dir, validConfigYAML)

	errCh := make(chan error, 1)
	w, err := NewWatcher(path, func(*AppConfig) {
		t.Error("callback must not run for an invalid configuration")
	},
		WithDebounceDelay(50*time.Millisecond),
		WithErrorCallback(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, invalidConfigYAML)

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("error callback was not called")
	}

	assert.Equal(t, "test-app", w.GetLastConfig().Metadata.Name, "last good config is kept")
	require.NoError(t, w.Stop())
}

func TestWatcher_SourceChange(t *testing.T) {
	// Not parallel due to file system operations and timing

	configDir := t.TempDir()
	sourceDir := t.TempDir()
	path := writeConfig(t, configDir, validConfigYAML)

	changed := make(chan string, 4)
	w, err := NewWatcher(path, nil,
		WithDebounceDelay(50*time.Millisecond),
		WithSourceDirs(sourceDir),
		WithSourceCallback(func(p string) { changed <- p }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, ".hidden"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "hello.go"), []byte("package app"), 0o600))

	select {
	case p := <-changed:
		assert.Equal(t, filepath.Join(sourceDir, "hello.go"), p)
	case <-time.After(2 * time.Second):
		t.Fatal("source callback was not called")
	}

	require.NoError(t, w.Stop())
}

func TestWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), validConfigYAML)
	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.stoppedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not exit on context cancellation")
	}
}

func TestWatcher_ForceReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, validConfigYAML)

	var got *AppConfig
	w, err := NewWatcher(path, func(cfg *AppConfig) { got = cfg })
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	require.NoError(t, w.ForceReload())
	require.NotNil(t, got)
	assert.Same(t, got, w.GetLastConfig())

	writeConfig(t, dir, invalidConfigYAML)
	assert.Error(t, w.ForceReload())
	assert.Same(t, got, w.GetLastConfig())
}

func TestWatcher_EventFilters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sources := t.TempDir()
	path := filepath.Join(dir, "app.yaml")

	w, err := NewWatcher(path, nil, WithSourceDirs(sources))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.True(t, w.isConfigEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.False(t, w.isConfigEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.False(t, w.isConfigEvent(fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}))

	assert.True(t, w.isSourceEvent(fsnotify.Event{Name: filepath.Join(sources, "a.go"), Op: fsnotify.Remove}))
	assert.False(t, w.isSourceEvent(fsnotify.Event{Name: filepath.Join(sources, "a.go~"), Op: fsnotify.Write}))
	assert.False(t, w.isSourceEvent(fsnotify.Event{Name: filepath.Join(sources, ".a.swp"), Op: fsnotify.Write}))
	assert.False(t, w.isSourceEvent(fsnotify.Event{Name: filepath.Join(dir, "a.go"), Op: fsnotify.Write}))
}

func TestWatcher_HandleWatchError(t *testing.T) {
	t.Parallel()

	var got error
	w, err := NewWatcher("app.yaml", nil, WithErrorCallback(func(err error) { got = err }))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	boom := errors.New("boom")
	w.handleWatchError(boom)
	assert.Same(t, boom, got)
}
