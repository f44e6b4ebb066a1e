package storage

import (
	"context"
	"testing"
	"time"

	"pomodoro/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, store *Store, current model.Configuration) (*Watcher, <-chan model.Configuration) {
	t.Helper()
	changes := make(chan model.Configuration, 4)
	watcher, err := NewWatcher(store, current, 10*time.Millisecond, func(config model.Configuration) {
		changes <- config
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	t.Cleanup(func() {
		assert.NoError(t, watcher.Stop())
	})
	return watcher, changes
}

func TestWatcherReportsExternalEdits(t *testing.T) {
	store := NewStore(t.TempDir())
	current := store.LoadConfiguration()
	_, changes := startWatcher(t, store, current)

	writeRaw(t, store, "countPomodoros: 2\npomoLength: 600\nsmallPauseLength: 60\nbigPauseLength: 120\n")

	select {
	case config := <-changes:
		assert.Equal(t, model.Configuration{
			PomosBeforeLongBreak: 2,
			WorkSeconds:          600,
			ShortBreakSeconds:    60,
			LongBreakSeconds:     120,
		}, config)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload reported")
	}
}

func TestWatcherIgnoresUnchangedConfiguration(t *testing.T) {
	store := NewStore(t.TempDir())
	current := store.LoadConfiguration()
	watcher, changes := startWatcher(t, store, current)

	updated := current
	updated.WorkSeconds = 42
	watcher.Remember(updated)
	require.NoError(t, store.Save(updated))

	select {
	case config := <-changes:
		t.Fatalf("unexpected reload: %+v", config)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	store := NewStore(t.TempDir())
	watcher, err := NewWatcher(store, model.DefaultConfiguration(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultDebounce, watcher.debounce)
	require.NoError(t, watcher.Start(context.Background()))
	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
}

func TestWatcherStartFailsForMissingDirectory(t *testing.T) {
	store := NewStore(t.TempDir() + "/missing")
	watcher, err := NewWatcher(store, model.DefaultConfiguration(), 0, nil)
	require.NoError(t, err)
	assert.Error(t, watcher.Start(context.Background()))
	require.NoError(t, watcher.Stop())
}
