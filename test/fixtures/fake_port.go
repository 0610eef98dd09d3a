// Package fixtures provides test doubles shared by package and integration tests.
package fixtures

import (
	"errors"
	"sort"
	"sync"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// FakePort is an in-memory domain.ProcessPort. Frozen processes stay in the
// table; Freeze and Resume only flip a flag, like the real OS call.
type FakePort struct {
	mu         sync.Mutex
	procs      map[int]domain.ProcessInfo
	frozen     map[int]bool
	freezeErrs map[int]error
	resumeErrs map[int]error
	enumErr    error
	selfPID    int
	fgPID      int

	FreezeCalls []int
	ResumeCalls []int
}

// NewFakePort creates an empty process table. selfPID is reported as CurrentPID.
func NewFakePort(selfPID int) *FakePort {
	return &FakePort{
		procs:      make(map[int]domain.ProcessInfo),
		frozen:     make(map[int]bool),
		freezeErrs: make(map[int]error),
		resumeErrs: make(map[int]error),
		selfPID:    selfPID,
	}
}

// Add inserts or replaces a process.
func (f *FakePort) Add(p domain.ProcessInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs[p.PID] = p
}

// Remove deletes a process, as if it exited.
func (f *FakePort) Remove(pid int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.procs, pid)
	delete(f.frozen, pid)
}

// SetForeground marks pid as owning the active window (0 for none).
func (f *FakePort) SetForeground(pid int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fgPID = pid
}

// FailEnumerate makes Enumerate return err (nil to clear).
func (f *FakePort) FailEnumerate(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enumErr = err
}

// FailFreeze makes Freeze(pid) return err.
func (f *FakePort) FailFreeze(pid int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freezeErrs[pid] = err
}

// FailResume makes Resume(pid) return err.
func (f *FakePort) FailResume(pid int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeErrs[pid] = err
}

// IsFrozen reports whether pid is currently suspended.
func (f *FakePort) IsFrozen(pid int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frozen[pid]
}

// FrozenPIDs returns suspended pids in ascending order.
func (f *FakePort) FrozenPIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.frozen))
	for pid, frozen := range f.frozen {
		if frozen {
			out = append(out, pid)
		}
	}
	sort.Ints(out)
	return out
}

// Enumerate returns the table in pid order.
func (f *FakePort) Enumerate() ([]domain.ProcessInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	out := make([]domain.ProcessInfo, 0, len(f.procs))
	for _, p := range f.procs {
		p.IsForeground = f.fgPID != 0 && p.PID == f.fgPID
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

// ForegroundPID returns the foreground pid, if any.
func (f *FakePort) ForegroundPID() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fgPID, f.fgPID != 0
}

// CurrentPID returns the configured self pid.
func (f *FakePort) CurrentPID() int {
	return f.selfPID
}

// Freeze suspends pid.
func (f *FakePort) Freeze(pid int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FreezeCalls = append(f.FreezeCalls, pid)
	if err := f.freezeErrs[pid]; err != nil {
		return 0, err
	}
	if _, ok := f.procs[pid]; !ok {
		return 0, domain.ErrProcessNotFound
	}
	f.frozen[pid] = true
	return 1, nil
}

// Resume resumes pid.
func (f *FakePort) Resume(pid int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResumeCalls = append(f.ResumeCalls, pid)
	if err := f.resumeErrs[pid]; err != nil {
		return 0, err
	}
	if _, ok := f.procs[pid]; !ok {
		return 0, domain.ErrProcessNotFound
	}
	delete(f.frozen, pid)
	return 1, nil
}

// Calls returns copies of the recorded Freeze and Resume calls.
func (f *FakePort) Calls() (freezes, resumes []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.FreezeCalls...), append([]int(nil), f.ResumeCalls...)
}

var _ domain.ProcessPort = (*FakePort)(nil)

// MemoryStateStore is an in-memory domain.StateStore.
type MemoryStateStore struct {
	mu      sync.Mutex
	state   *domain.PersistedState
	saveErr error
	Saves   int
	Deletes int
}

// ErrInjected is returned by failing fixtures.
var ErrInjected = errors.New("injected failure")

// NewMemoryStateStore creates an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

// Seed sets the stored state directly.
func (m *MemoryStateStore) Seed(state *domain.PersistedState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// FailSave makes Save return err (nil to clear).
func (m *MemoryStateStore) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Save stores a copy of state.
func (m *MemoryStateStore) Save(state *domain.PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := domain.NewPersistedState()
	cp.FrozenProcesses = append(cp.FrozenProcesses, state.FrozenProcesses...)
	m.state = cp
	return nil
}

// Load returns the stored state, or nil, nil.
func (m *MemoryStateStore) Load() (*domain.PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	cp := domain.NewPersistedState()
	cp.FrozenProcesses = append(cp.FrozenProcesses, m.state.FrozenProcesses...)
	return cp, nil
}

// Delete drops the stored state.
func (m *MemoryStateStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	m.state = nil
	return nil
}

// Path returns a placeholder path.
func (m *MemoryStateStore) Path() string {
	return "memory://state"
}

// Exists reports whether state is stored.
func (m *MemoryStateStore) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil
}

var _ domain.StateStore = (*MemoryStateStore)(nil)

// MemoryJournal is an in-memory domain.FreezeJournal.
type MemoryJournal struct {
	mu     sync.Mutex
	events []domain.JournalEvent
}

// Record appends an event.
func (j *MemoryJournal) Record(e domain.JournalEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
	return nil
}

// Recent returns up to limit events, newest first.
func (j *MemoryJournal) Recent(limit int) ([]domain.JournalEvent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]domain.JournalEvent, 0, limit)
	for i := len(j.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.events[i])
	}
	return out, nil
}

// Close is a no-op.
func (j *MemoryJournal) Close() error {
	return nil
}

// Events returns every event in record order.
func (j *MemoryJournal) Events() []domain.JournalEvent {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.JournalEvent(nil), j.events...)
}

var _ domain.FreezeJournal = (*MemoryJournal)(nil)
