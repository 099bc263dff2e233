package state

import (
	"errors"
	"fmt"
	"strings"
)

// State is the processing label tracked for a runfolder.
type State string

const (
	Ready   State = "ready"
	Pending State = "pending"
	Started State = "started"
	Done    State = "done"
	Error   State = "error"
)

// Default is the state written when a runfolder is first seen.
const Default = Ready

// ErrUnknown reports a token that is not part of the enumeration.
var ErrUnknown = errors.New("unknown state")

var allStates = []State{
	Ready,
	Pending,
	Started,
	Done,
	Error,
}

var stateSet = func() map[State]struct{} {
	set := make(map[State]struct{}, len(allStates))
	for _, s := range allStates {
		set[s] = struct{}{}
	}
	return set
}()

// All returns the ordered list of known states.
func All() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// Parse decodes a persisted token. Surrounding whitespace is ignored; the
// token itself must match a member exactly.
func Parse(value string) (State, error) {
	token := State(strings.TrimSpace(value))
	if _, ok := stateSet[token]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknown, string(token))
	}
	return token, nil
}

// Valid reports whether s is a member of the enumeration.
func (s State) Valid() bool {
	_, ok := stateSet[s]
	return ok
}

func (s State) String() string {
	return string(s)
}

// Names returns the canonical tokens, for help text and error messages.
func Names() []string {
	names := make([]string, len(allStates))
	for i, s := range allStates {
		names[i] = string(s)
	}
	return names
}
