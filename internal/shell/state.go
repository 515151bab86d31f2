package shell

import (
	"sync/atomic"

	"smallsh/internal/jobs"
)

// State is everything the interpreter remembers between command lines.
// Only the background-mode flag is touched outside the main loop, by the
// signal controller, so it is the only atomic field.
type State struct {
	// Last is the result of the most recent foreground command.
	Last jobs.Status
	Jobs *jobs.Table

	foregroundOnly atomic.Bool
}

func NewState(capacity int, opts ...jobs.Option) *State {
	return &State{Jobs: jobs.NewTable(capacity, opts...)}
}

// BackgroundEnabled reports whether a trailing " &" is honoured.
func (s *State) BackgroundEnabled() bool {
	return !s.foregroundOnly.Load()
}

// ToggleBackground flips foreground-only mode and returns the new value
// of BackgroundEnabled.
func (s *State) ToggleBackground() bool {
	for {
		old := s.foregroundOnly.Load()
		if s.foregroundOnly.CompareAndSwap(old, !old) {
			return old
		}
	}
}
