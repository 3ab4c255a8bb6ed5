package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "container.toml", testTOML)
	w, err := NewWatcher(path)
	require.NoError(t, err)

	absPath, _ := filepath.Abs(path)
	assert.Equal(t, absPath, w.Path())

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)
}

func TestNewWatcher_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewWatcher("/nonexistent/path/to/container.yaml")
	assert.Error(t, err)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "container.ini"))
	assert.Error(t, err)
}

func TestWatcher_OnReload(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "container.toml", testTOML)
	w, err := NewWatcher(path, WithDebounceDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	reloaded := make(chan *Manifest, 1)
	w.OnReload(func(m *Manifest) error {
		calls.Add(1)
		select {
		case reloaded <- m:
		default:
		}
		return nil
	})
	w.OnReload(func(*Manifest) error {
		return errors.New("callback errors are only logged")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx)
	}()

	// Allow the watcher to start.
	time.Sleep(50 * time.Millisecond)

	updated := testTOML + `
[[bindings]]
contract = "extra"

[[bindings.implementations]]
type = "extraImpl"
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	select {
	case m := <-reloaded:
		assert.Len(t, m.Bindings, 3)
	case <-time.After(2 * time.Second):
		t.Fatal("manifest was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestWatcher_CoalescesWrites(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "container.toml", testTOML)
	w, err := NewWatcher(path, WithDebounceDelay(100*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	w.OnReload(func(*Manifest) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(testTOML), 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_CloseEndsWatch(t *testing.T) {
	t.Parallel()

	w, err := NewWatcher(writeManifest(t, "container.yaml", testYAML))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Watch(context.Background()) }()

	require.NoError(t, w.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after Close")
	}
}
