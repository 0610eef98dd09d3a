package daemon

import "github.com/eliteGoblin/focusd/smartfreeze/internal/domain"

// RuntimeState is the daemon's in-memory state. It is owned by the poll
// loop goroutine; other goroutines reach it only through Daemon commands.
type RuntimeState struct {
	frozen       []int
	names        map[int]string
	gameDetected bool
	enabled      bool
	sessionID    string
}

// NewRuntimeState returns an enabled, idle state.
func NewRuntimeState() *RuntimeState {
	return &RuntimeState{
		frozen:  make([]int, 0),
		names:   make(map[int]string),
		enabled: true,
	}
}

// AddFrozen records a pid the daemon froze. Duplicates are ignored.
func (s *RuntimeState) AddFrozen(pid int, name string) {
	if _, ok := s.names[pid]; ok {
		return
	}
	s.frozen = append(s.frozen, pid)
	s.names[pid] = name
}

// ClearFrozen drains the frozen set, returning pids in freeze order.
func (s *RuntimeState) ClearFrozen() []int {
	drained := s.frozen
	s.frozen = make([]int, 0)
	s.names = make(map[int]string)
	return drained
}

// FrozenPIDs returns a copy of the frozen set.
func (s *RuntimeState) FrozenPIDs() []int {
	out := make([]int, len(s.frozen))
	copy(out, s.frozen)
	return out
}

// FrozenName returns the name recorded for pid.
func (s *RuntimeState) FrozenName(pid int) string {
	return s.names[pid]
}

// ToggleEnabled flips the enabled flag and returns the new value.
// Disabling never resumes anything.
func (s *RuntimeState) ToggleEnabled() bool {
	s.enabled = !s.enabled
	return s.enabled
}

// IsEnabled reports whether ticks do work.
func (s *RuntimeState) IsEnabled() bool {
	return s.enabled
}

// GameDetected reports whether the last transition saw a game.
func (s *RuntimeState) GameDetected() bool {
	return s.gameDetected
}

// State derives the state machine position.
func (s *RuntimeState) State() domain.DaemonState {
	switch {
	case !s.enabled:
		return domain.StateDisabled
	case s.gameDetected:
		return domain.StateGameActive
	default:
		return domain.StateIdle
	}
}

// Snapshot returns a status copy safe to hand to other goroutines.
func (s *RuntimeState) Snapshot() domain.DaemonStatus {
	return domain.DaemonStatus{
		State:        s.State(),
		Enabled:      s.enabled,
		GameDetected: s.gameDetected,
		FrozenPIDs:   s.FrozenPIDs(),
		SessionID:    s.sessionID,
	}
}
