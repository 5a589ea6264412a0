// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "github.com/danielhkuo/elex/models"

// State is derived from an election's timestamps and paused flag. It is never stored.
type State int

const (
	StatePaused State = iota - 1
	StateCreated
	StateInProgress
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateCreated:
		return "created"
	case StateInProgress:
		return "in_progress"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Active reports whether voting has started and not ended.
func (s State) Active() bool {
	return s == StateInProgress || s == StatePaused
}

// StateOf computes the lifecycle state of e.
func StateOf(e *models.Election) State {
	switch {
	case e.EndDate != nil:
		return StateClosed
	case e.StartDate == nil:
		return StateCreated
	case e.Paused:
		return StatePaused
	default:
		return StateInProgress
	}
}

// Event is a lifecycle trigger.
type Event int

const (
	EventStart Event = iota + 1
	EventTogglePause
	EventEnd
)

func (ev Event) String() string {
	switch ev {
	case EventStart:
		return "start"
	case EventTogglePause:
		return "toggle_pause"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Transition returns the state reached from `from` on ev, or ErrWrongState.
// Preconditions that depend on options or voters are checked by the caller.
func Transition(from State, ev Event) (State, error) {
	switch ev {
	case EventStart:
		if from == StateCreated {
			return StateInProgress, nil
		}
	case EventTogglePause:
		switch from {
		case StateInProgress:
			return StatePaused, nil
		case StatePaused:
			return StateInProgress, nil
		}
	case EventEnd:
		if from.Active() {
			return StateClosed, nil
		}
	}
	return from, ErrWrongState
}

// requireState fails with ErrWrongState unless e is in one of allowed.
func requireState(e *models.Election, allowed ...State) error {
	s := StateOf(e)
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return ErrWrongState
}
