package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"pomodoro/internal/core/model"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads the settings file when it is edited outside the application.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	onChange func(model.Configuration)
	debounce time.Duration

	mu       sync.Mutex
	last     model.Configuration
	stopCh   chan struct{}
	reloadCh chan struct{}
	started  bool
	stopped  bool
}

// NewWatcher creates a watcher for the store's settings file. onChange is
// called from a background goroutine, only with configurations differing
// from current and from the previously reported one.
func NewWatcher(store *Store, current model.Configuration, debounce time.Duration, onChange func(model.Configuration)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		store:    store,
		watcher:  watcher,
		onChange: onChange,
		debounce: debounce,
		last:     current,
		stopCh:   make(chan struct{}),
		reloadCh: make(chan struct{}, 1),
	}, nil
}

// Start begins watching the config directory.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	// Editors often replace the file, so the directory is watched instead.
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("watch config directory %s: %w", w.store.Dir(), err)
	}
	w.started = true

	slog.Info("Watching settings file", "path", w.store.Path())
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close file watcher: %w", err)
	}
	return nil
}

// Remember records a configuration applied by the application itself so the
// resulting file write is not reported back.
func (w *Watcher) Remember(config model.Configuration) {
	w.mu.Lock()
	w.last = config
	w.mu.Unlock()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	fileName := filepath.Base(w.store.Path())

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Settings file changed", "file", event.Name, "op", event.Op.String())
				w.triggerReload()
			case event.Has(fsnotify.Remove):
				slog.Warn("Settings file removed", "file", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Settings watcher error", "error", err)
		}
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var reloadTimer *time.Timer
	stopTimer := func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stopCh:
			stopTimer()
			return
		case <-w.reloadCh:
			stopTimer()
			reloadTimer = time.AfterFunc(w.debounce, w.reload)
		}
	}
}

func (w *Watcher) triggerReload() {
	select {
	case w.reloadCh <- struct{}{}:
	default:
	}
}

func (w *Watcher) reload() {
	config, err := w.store.Resolve()
	if err != nil {
		slog.Warn("Ignoring unreadable settings file", "path", w.store.Path(), "error", err)
		return
	}

	w.mu.Lock()
	if w.stopped || config == w.last {
		w.mu.Unlock()
		return
	}
	w.last = config
	w.mu.Unlock()

	slog.Info("Settings reloaded",
		KeyCountPomodoros, config.PomosBeforeLongBreak,
		KeyPomoLength, config.WorkSeconds,
		KeySmallPauseLength, config.ShortBreakSeconds,
		KeyBigPauseLength, config.LongBreakSeconds,
	)
	if w.onChange != nil {
		w.onChange(config)
	}
}
