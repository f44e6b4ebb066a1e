// Package ticker drives the pomodoro timer from a wall-clock ticker.
package ticker

import (
	"context"
	"sync"
	"time"
)

// Dispatcher runs fn on the thread that owns the timer.
type Dispatcher func(fn func())

// Ticker delivers onTick through the dispatcher once per interval.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	dispatch Dispatcher
	onTick   func()
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a stopped ticker. A nil dispatcher calls onTick directly.
func New(interval time.Duration, dispatch Dispatcher, onTick func()) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Ticker{
		interval: interval,
		dispatch: dispatch,
		onTick:   onTick,
	}
}

// Start launches the ticking loop. It is a no-op if already running.
func (ticker *Ticker) Start(ctx context.Context) {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	if ticker.running {
		return
	}
	ticker.running = true
	ticker.stopCh = make(chan struct{})
	ticker.doneCh = make(chan struct{})

	go ticker.run(ctx, ticker.stopCh, ticker.doneCh)
}

// Stop terminates the ticking loop and waits for it to exit.
func (ticker *Ticker) Stop() {
	ticker.mu.Lock()
	if !ticker.running {
		ticker.mu.Unlock()
		return
	}
	ticker.running = false
	close(ticker.stopCh)
	done := ticker.doneCh
	ticker.mu.Unlock()

	<-done
}

// Running reports whether the loop is active.
func (ticker *Ticker) Running() bool {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.running
}

func (ticker *Ticker) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	clock := time.NewTicker(ticker.interval)
	defer clock.Stop()

	for {
		select {
		case <-ctx.Done():
			ticker.mu.Lock()
			if ticker.stopCh == stopCh {
				ticker.running = false
			}
			ticker.mu.Unlock()
			return
		case <-stopCh:
			return
		case <-clock.C:
			if ticker.onTick != nil {
				ticker.dispatch(ticker.onTick)
			}
		}
	}
}
