package pomodoro

import "pomodoro/internal/core/model"

// Phase is the current activity kind.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseShortBreak
	PhaseLongBreak
)

// Label returns the human-readable phase name.
func (phase Phase) Label() string {
	switch phase {
	case PhaseWork:
		return "Work"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	}
	return ""
}

func (phase Phase) String() string {
	return phase.Label()
}

// Length returns the configured length of the phase in seconds.
func (phase Phase) Length(config model.Configuration) int {
	switch phase {
	case PhaseWork:
		return config.WorkSeconds
	case PhaseShortBreak:
		return config.ShortBreakSeconds
	case PhaseLongBreak:
		return config.LongBreakSeconds
	}
	return 0
}

// EventType names the timer field that changed.
type EventType string

const (
	EventSettingsChanged   EventType = "settings_changed"
	EventCycleIndexChanged EventType = "cycle_index_changed"
	EventPhaseChanged      EventType = "phase_changed"
	EventRemainingChanged  EventType = "remaining_changed"
	EventRunningChanged    EventType = "running_changed"
)

// Snapshot is a read-only copy of the timer state.
type Snapshot struct {
	Config     model.Configuration
	Phase      Phase
	Remaining  int
	CycleIndex int
	Running    bool
}

// Event is delivered to observers whenever a timer field changes value.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}
