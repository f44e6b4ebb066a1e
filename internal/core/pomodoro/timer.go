// Package pomodoro implements the work/break cycle state machine.
//
// The timer holds plain state and has no goroutines or locks: callers must
// serialize Start, Pause, Stop, Tick and Reconfigure onto one thread. Each of
// them returns the events it produced, and the same events are delivered to
// every subscribed observer in order.
package pomodoro

import (
	"fmt"

	"pomodoro/internal/core/model"
)

// Observer receives timer change events.
type Observer func(Event)

// Timer is the pomodoro state machine.
type Timer struct {
	config     model.Configuration
	phase      Phase
	remaining  int
	cycleIndex int
	running    bool

	observers []observerEntry
	nextID    int
}

type observerEntry struct {
	id       int
	observer Observer
}

// New creates a stopped timer at the start of the first work phase.
func New(config model.Configuration) *Timer {
	return &Timer{
		config:    config,
		phase:     PhaseWork,
		remaining: config.WorkSeconds,
	}
}

// Subscribe registers an observer and returns a function removing it.
func (timer *Timer) Subscribe(observer Observer) func() {
	if observer == nil {
		return func() {}
	}
	timer.nextID++
	id := timer.nextID
	timer.observers = append(timer.observers, observerEntry{id: id, observer: observer})
	return func() {
		for i, entry := range timer.observers {
			if entry.id == id {
				timer.observers = append(timer.observers[:i:i], timer.observers[i+1:]...)
				return
			}
		}
	}
}

// Start resumes consuming ticks.
func (timer *Timer) Start() []Event {
	if timer.running {
		return nil
	}
	timer.running = true
	return timer.publish(EventRunningChanged)
}

// Pause stops consuming ticks without resetting anything.
func (timer *Timer) Pause() []Event {
	if !timer.running {
		return nil
	}
	timer.running = false
	return timer.publish(EventRunningChanged)
}

// Stop pauses the timer and rewinds to the first work phase.
// Only fields whose value changed are reported.
func (timer *Timer) Stop() []Event {
	var changed []EventType
	if timer.running {
		timer.running = false
		changed = append(changed, EventRunningChanged)
	}
	if timer.cycleIndex != 0 {
		timer.cycleIndex = 0
		changed = append(changed, EventCycleIndexChanged)
	}
	if timer.remaining != timer.config.WorkSeconds {
		timer.remaining = timer.config.WorkSeconds
		changed = append(changed, EventRemainingChanged)
	}
	if timer.phase != PhaseWork {
		timer.phase = PhaseWork
		changed = append(changed, EventPhaseChanged)
	}
	return timer.publish(changed...)
}

// Tick advances the timer by one second. It is ignored while paused.
func (timer *Timer) Tick() []Event {
	if !timer.running {
		return nil
	}

	if timer.remaining > 0 {
		timer.remaining--
		return timer.publish(EventRemainingChanged)
	}

	var changed []EventType
	switch timer.phase {
	case PhaseWork:
		// The index only advances on the way back to work, so the long break
		// follows the last pomodoro of the set.
		if timer.nextCycleIndex() == 0 {
			timer.phase = PhaseLongBreak
			timer.remaining = timer.config.LongBreakSeconds
		} else {
			timer.phase = PhaseShortBreak
			timer.remaining = timer.config.ShortBreakSeconds
		}
	case PhaseShortBreak, PhaseLongBreak:
		timer.phase = PhaseWork
		timer.remaining = timer.config.WorkSeconds
		timer.cycleIndex = timer.nextCycleIndex()
		changed = append(changed, EventCycleIndexChanged)
	}
	changed = append(changed, EventPhaseChanged, EventRemainingChanged)
	return timer.publish(changed...)
}

// Reconfigure swaps the configuration in place. The current phase keeps its
// remaining time; only the progress denominator and future phases change.
func (timer *Timer) Reconfigure(config model.Configuration) []Event {
	if config == timer.config {
		return nil
	}
	timer.config = config
	changed := []EventType{EventSettingsChanged}
	if count := config.PomosBeforeLongBreak; count > 0 && timer.cycleIndex >= count {
		timer.cycleIndex = count - 1
		changed = append(changed, EventCycleIndexChanged)
	}
	return timer.publish(changed...)
}

// Configuration returns the active configuration.
func (timer *Timer) Configuration() model.Configuration {
	return timer.config
}

// Phase returns the current phase.
func (timer *Timer) Phase() Phase {
	return timer.phase
}

// PhaseLabel returns the display name of the current phase.
func (timer *Timer) PhaseLabel() string {
	return timer.phase.Label()
}

// Remaining returns the seconds left in the current phase.
func (timer *Timer) Remaining() int {
	return timer.remaining
}

// CycleIndex returns the 0-based index of the current pomodoro in the set.
func (timer *Timer) CycleIndex() int {
	return timer.cycleIndex
}

// Running reports whether ticks are being consumed.
func (timer *Timer) Running() bool {
	return timer.running
}

// FormattedRemaining renders the remaining time as MM:SS.
func (timer *Timer) FormattedRemaining() string {
	return FormatSeconds(timer.remaining)
}

// Progress returns the fraction of the current phase still remaining,
// measured against the phase length of the current configuration.
func (timer *Timer) Progress() float64 {
	length := timer.phase.Length(timer.config)
	if length <= 0 {
		return 0
	}
	return float64(timer.remaining) / float64(length)
}

// Snapshot copies the current state.
func (timer *Timer) Snapshot() Snapshot {
	return Snapshot{
		Config:     timer.config,
		Phase:      timer.phase,
		Remaining:  timer.remaining,
		CycleIndex: timer.cycleIndex,
		Running:    timer.running,
	}
}

// FormatSeconds renders seconds as zero-padded MM:SS.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (timer *Timer) nextCycleIndex() int {
	count := timer.config.PomosBeforeLongBreak
	if count <= 0 {
		return 0
	}
	return (timer.cycleIndex + 1) % count
}

func (timer *Timer) publish(types ...EventType) []Event {
	if len(types) == 0 {
		return nil
	}
	snapshot := timer.Snapshot()
	events := make([]Event, 0, len(types))
	for _, eventType := range types {
		events = append(events, Event{Type: eventType, Snapshot: snapshot})
	}

	observers := append([]observerEntry(nil), timer.observers...)
	for _, event := range events {
		for _, entry := range observers {
			entry.observer(event)
		}
	}
	return events
}
