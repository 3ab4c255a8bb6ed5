package manifest

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ReloadCallback receives the manifest every time it is reloaded. Errors are logged;
// they do not stop the other callbacks.
type ReloadCallback func(*Manifest) error

// ErrWatcherClosed is returned by Close on a watcher that was already closed.
var ErrWatcherClosed = errors.New("manifest: watcher already closed")

// Watcher reloads a manifest file whenever it is written. Bursts of writes produce a
// single reload. The directory is watched rather than the file so that editors which
// save by renaming a temporary file are seen too.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration

	mu        sync.Mutex
	callbacks []ReloadCallback
	closed    bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets how long the file has to stay quiet before it is reloaded.
// The default is 100ms.
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger reloads and reload failures are reported on.
func WithLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// NewWatcher watches the manifest at path. The extension has to name a supported format.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFor(abs); err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		return nil, errors.Join(err, fs.Close())
	}

	w := &Watcher{
		path:     abs,
		fs:       fs,
		logger:   zerolog.Nop(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path is the absolute path of the watched manifest.
func (w *Watcher) Path() string {
	return w.path
}

// OnReload adds a callback. Callbacks run in the order they were added, on the
// goroutine that runs Watch.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Watch reloads the manifest after it changes until ctx is done or the watcher is
// closed.
func (w *Watcher) Watch(ctx context.Context) error {
	name := filepath.Base(w.path)
	var quiet <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) == name && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				quiet = time.After(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("manifest watcher error")

		case <-quiet:
			quiet = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	m, err := Load(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("failed to reload manifest")
		return
	}
	w.logger.Info().Str("path", w.path).Int("bindings", len(m.Bindings)).Msg("manifest reloaded")

	w.mu.Lock()
	callbacks := append([]ReloadCallback(nil), w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb(m); err != nil {
			w.logger.Error().Err(err).Msg("manifest reload callback failed")
		}
	}
}

// Close stops the watcher. Watch returns once the file events stop.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	w.closed = true
	return w.fs.Close()
}
