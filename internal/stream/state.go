package stream

import "fmt"

// State represents the lifecycle state of one stream instance.
type State string

// Lifecycle states of a stream instance.
const (
	// StateConfigured indicates the descriptor is loaded but the stream has not started.
	StateConfigured State = "configured"

	// StateRunning indicates the worker is executing the stream.
	StateRunning State = "running"

	// StateStopping indicates teardown has begun.
	StateStopping State = "stopping"

	// StateCleanedUp indicates teardown finished and resources were reclaimed.
	StateCleanedUp State = "cleaned_up"
)

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}

// IsValid checks whether the state is one of the defined constants.
func (s State) IsValid() bool {
	switch s {
	case StateConfigured, StateRunning, StateStopping, StateCleanedUp:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the state is final.
func (s State) IsTerminal() bool {
	return s == StateCleanedUp
}

// CanTransitionTo checks whether this state may transition to target.
//
// Valid transitions:
//   - Configured → Running
//   - Running → Stopping
//   - Stopping → CleanedUp
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateConfigured:
		return target == StateRunning
	case StateRunning:
		return target == StateStopping
	case StateStopping:
		return target == StateCleanedUp
	default:
		return false
	}
}

// ParseState parses a string into a State.
func ParseState(s string) (State, error) {
	state := State(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid stream state: %q", s)
	}
	return state, nil
}
