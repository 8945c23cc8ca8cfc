// Package tracker holds the believed internet connectivity state and
// detects transitions between readings.
package tracker

import "time"

// State is the believed connectivity state
type State int

const (
	StateUnknown State = iota
	StateUp
	StateDown
)

func (s State) String() string {
	switch s {
	case StateUp:
		return "UP"
	case StateDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// FromReading maps an aggregated reading to a state
func FromReading(up bool) State {
	if up {
		return StateUp
	}
	return StateDown
}

// EventKind identifies what an observation changed
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventWentDown EventKind = "went_down"
	EventCameUp   EventKind = "came_up"
)

// Event is emitted by Observe when the state leaves Unknown or flips.
// Elapsed is the time spent in the previous state; it is zero for EventStarted.
type Event struct {
	Kind    EventKind
	State   State
	Elapsed time.Duration
	At      time.Time
}

// Tracker owns the connectivity state machine. It is not safe for
// concurrent use; the scheduler is its only caller.
type Tracker struct {
	state State
	since time.Time
}

// New returns a tracker in the Unknown state, entered at start
func New(start time.Time) *Tracker {
	return &Tracker{
		state: StateUnknown,
		since: start,
	}
}

// Observe feeds the latest aggregated reading. It returns an event and true
// when the reading is the first one or differs from the previous reading.
func (t *Tracker) Observe(up bool, now time.Time) (Event, bool) {
	next := FromReading(up)

	switch {
	case t.state == StateUnknown:
		t.state = next
		t.since = now
		return Event{Kind: EventStarted, State: next, At: now}, true

	case t.state == next:
		return Event{}, false
	}

	kind := EventCameUp
	if next == StateDown {
		kind = EventWentDown
	}

	event := Event{
		Kind:    kind,
		State:   next,
		Elapsed: t.Elapsed(now),
		At:      now,
	}
	t.state = next
	t.since = now

	return event, true
}

// State returns the current state
func (t *Tracker) State() State {
	return t.state
}

// Elapsed returns how long the current state has lasted at now, never negative
func (t *Tracker) Elapsed(now time.Time) time.Duration {
	d := now.Sub(t.since)
	if d < 0 {
		return 0
	}
	return d
}
