package config

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// ConfigCallback is called when configuration changes.
type ConfigCallback func(*AppConfig)

// SourceCallback is called after files in a watched source directory
// changed. path is the last file reported in the debounce window.
type SourceCallback func(path string)

// ErrorCallback is called when an error occurs during config reload.
type ErrorCallback func(error)

// Watcher watches the configuration file, and optionally controller source
// directories, and triggers reloads.
type Watcher struct {
	path           string
	sourceDirs     map[string]struct{}
	watcher        *fsnotify.Watcher
	callback       ConfigCallback
	sourceCallback SourceCallback
	errorCallback  ErrorCallback
	logger         observability.Logger
	debounceDelay  time.Duration
	lastConfig     *AppConfig
	mu             sync.RWMutex
	stopCh         chan struct{}
	stoppedCh      chan struct{}
	running        bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// WithSourceDirs adds directories whose file changes are reported through
// the source callback.
func WithSourceDirs(dirs ...string) WatcherOption {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.sourceDirs[abs] = struct{}{}
			}
		}
	}
}

// WithSourceCallback sets the callback for source directory changes.
func WithSourceCallback(callback SourceCallback) WatcherOption {
	return func(w *Watcher) {
		w.sourceCallback = callback
	}
}

// NewWatcher creates a new configuration watcher.
func NewWatcher(path string, callback ConfigCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		sourceDirs:    make(map[string]struct{}),
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: DefaultDebounceDelay,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the configuration and begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	config, err := w.load()
	if err != nil {
		w.setStopped()
		return err
	}

	w.mu.Lock()
	w.lastConfig = config
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.setStopped()
		return err
	}
	for dir := range w.sourceDirs {
		if err := w.watcher.Add(dir); err != nil {
			w.setStopped()
			return err
		}
	}

	w.logger.Info("started watching configuration file",
		observability.String("path", w.path),
		observability.Int("source_dirs", len(w.sourceDirs)),
	)

	go w.watch(ctx)

	return nil
}

func (w *Watcher) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// GetLastConfig returns the last successfully loaded configuration.
func (w *Watcher) GetLastConfig() *AppConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastConfig
}

// debouncer coalesces bursts of file events into one notification.
type debouncer struct {
	timer *time.Timer
	ch    <-chan time.Time
}

func (d *debouncer) reset(delay time.Duration) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.NewTimer(delay)
	d.ch = d.timer.C
}

func (d *debouncer) fired() {
	d.ch = nil
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var configDebounce, sourceDebounce debouncer
	var changedSource string

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("config watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			switch {
			case w.isConfigEvent(event):
				configDebounce.reset(w.debounceDelay)
			case w.isSourceEvent(event):
				changedSource = event.Name
				sourceDebounce.reset(w.debounceDelay)
			}

		case <-configDebounce.ch:
			configDebounce.fired()
			w.reload()

		case <-sourceDebounce.ch:
			sourceDebounce.fired()
			w.sourceChanged(changedSource)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

// isConfigEvent reports writes to the configuration file.
func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	w.logger.Debug("config file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)
	return true
}

// isSourceEvent reports changes in a watched source directory. Hidden and
// editor backup files are ignored.
func (w *Watcher) isSourceEvent(event fsnotify.Event) bool {
	if _, ok := w.sourceDirs[filepath.Dir(filepath.Clean(event.Name))]; !ok {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// handleWatchError handles watcher errors.
func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("config watcher error",
		observability.Error(err),
	)
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

func (w *Watcher) sourceChanged(path string) {
	w.logger.Info("controller sources changed",
		observability.String("path", path),
	)
	if w.sourceCallback != nil {
		w.sourceCallback(path)
	}
}

func (w *Watcher) load() (*AppConfig, error) {
	config, err := LoadConfig(w.path)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// reload attempts to reload the configuration.
func (w *Watcher) reload() {
	w.logger.Info("reloading configuration",
		observability.String("path", w.path),
	)

	config, err := w.load()
	if err != nil {
		w.logger.Error("failed to reload configuration",
			observability.Error(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.lastConfig = config
	w.mu.Unlock()

	w.logger.Info("configuration reloaded successfully")

	if w.callback != nil {
		w.callback(config)
	}
}

// ForceReload forces an immediate configuration reload.
func (w *Watcher) ForceReload() error {
	config, err := w.load()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastConfig = config
	w.mu.Unlock()

	if w.callback != nil {
		w.callback(config)
	}

	return nil
}
