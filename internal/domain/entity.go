// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// Category classifies a process for freeze selection.
// Declaration order is precedence order: lower values win.
type Category int

const (
	CategoryCritical Category = iota
	CategoryGaming
	CategoryCommunication
	CategoryBackgroundService
	CategoryProductivity
	CategoryUnknown
)

// Categories lists every category in precedence order.
var Categories = []Category{
	CategoryCritical,
	CategoryGaming,
	CategoryCommunication,
	CategoryBackgroundService,
	CategoryProductivity,
	CategoryUnknown,
}

// String returns the display name used in reports.
func (c Category) String() string {
	switch c {
	case CategoryCritical:
		return "Critical"
	case CategoryGaming:
		return "Gaming"
	case CategoryCommunication:
		return "Communication"
	case CategoryBackgroundService:
		return "Background"
	case CategoryProductivity:
		return "Productivity"
	default:
		return "Unknown"
	}
}

// MarshalText renders the category by name in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ProcessInfo is a raw process snapshot as reported by the OS adapter.
type ProcessInfo struct {
	PID          int
	PPID         int
	Name         string
	Path         string // Empty when the image path cannot be resolved
	MemoryMB     uint64
	IsForeground bool
}

// ProcessRecord is a categorized process, rebuilt on every enumeration.
type ProcessRecord struct {
	PID          int      `json:"pid"`
	PPID         int      `json:"ppid"`
	Name         string   `json:"name"`
	Path         string   `json:"full_path"`
	MemoryMB     uint64   `json:"memory_mb"`
	IsForeground bool     `json:"is_foreground"`
	Category     Category `json:"category"`
	Rule         string   `json:"-"` // Name of the classification rule that fired
}

// SelectionConfig controls which processes the engine selects.
type SelectionConfig struct {
	MinMemoryMB       uint64
	KeepCommunication bool
}

// DefaultSelectionConfig returns the 100 MB threshold with communication apps freezable.
func DefaultSelectionConfig() SelectionConfig {
	return SelectionConfig{
		MinMemoryMB:       100,
		KeepCommunication: false,
	}
}

// StaleAfter is how old a persisted freeze record may get before recovery ignores it.
const StaleAfter = time.Hour

// FrozenProcess is one persisted freeze record.
type FrozenProcess struct {
	PID       int    `json:"pid"`
	Name      string `json:"name"`
	ExePath   string `json:"exePath"`
	Timestamp int64  `json:"timestamp"` // Unix seconds
}

// NewFrozenProcess stamps a record with the given time.
func NewFrozenProcess(pid int, name, exePath string, at time.Time) FrozenProcess {
	return FrozenProcess{
		PID:       pid,
		Name:      name,
		ExePath:   exePath,
		Timestamp: at.Unix(),
	}
}

// IsStale reports whether the record is older than StaleAfter at now.
func (f FrozenProcess) IsStale(now time.Time) bool {
	return now.Unix()-f.Timestamp > int64(StaleAfter/time.Second)
}

// PersistedState is the on-disk crash recovery document.
type PersistedState struct {
	FrozenProcesses []FrozenProcess `json:"frozenProcesses"`
}

// NewPersistedState returns an empty state that serializes as an empty list.
func NewPersistedState() *PersistedState {
	return &PersistedState{FrozenProcesses: make([]FrozenProcess, 0)}
}

// IsEmpty reports whether no records are held.
func (s *PersistedState) IsEmpty() bool {
	return len(s.FrozenProcesses) == 0
}

// Add appends a record.
func (s *PersistedState) Add(p FrozenProcess) {
	s.FrozenProcesses = append(s.FrozenProcesses, p)
}

// Remove drops every record for pid.
func (s *PersistedState) Remove(pid int) {
	kept := s.FrozenProcesses[:0]
	for _, p := range s.FrozenProcesses {
		if p.PID != pid {
			kept = append(kept, p)
		}
	}
	s.FrozenProcesses = kept
}

// Clear drops every record.
func (s *PersistedState) Clear() {
	s.FrozenProcesses = s.FrozenProcesses[:0]
}

// ValidProcesses returns the non-stale records at now, in stored order.
func (s *PersistedState) ValidProcesses(now time.Time) []FrozenProcess {
	valid := make([]FrozenProcess, 0, len(s.FrozenProcesses))
	for _, p := range s.FrozenProcesses {
		if !p.IsStale(now) {
			valid = append(valid, p)
		}
	}
	return valid
}

// DaemonState names the state machine position derived from runtime flags.
type DaemonState string

const (
	StateDisabled   DaemonState = "disabled"
	StateIdle       DaemonState = "idle"
	StateGameActive DaemonState = "game_active"
)

// DaemonStatus is a point-in-time view of the daemon, served to UI clients.
type DaemonStatus struct {
	State        DaemonState `json:"state"`
	Enabled      bool        `json:"enabled"`
	GameDetected bool        `json:"game_detected"`
	FrozenPIDs   []int       `json:"frozen_pids"`
	SessionID    string      `json:"session_id,omitempty"`
}

// BatchResult is the outcome of one pid inside a batch freeze/resume.
type BatchResult struct {
	PID     int
	Threads int
	Err     error
}

// JournalAction tags a journal event.
type JournalAction string

const (
	ActionFreeze  JournalAction = "freeze"
	ActionResume  JournalAction = "resume"
	ActionRecover JournalAction = "recover"
)

// JournalEvent is one freeze history entry.
type JournalEvent struct {
	SessionID string
	Action    JournalAction
	PID       int
	Name      string
	OK        bool
	Detail    string
	At        time.Time
}
