package policy

import (
	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// ParentIndex is a flat pid -> parent lookup rebuilt from each enumeration.
// It is only ever consulted one hop deep.
type ParentIndex struct {
	parents map[int]int
	names   map[int]string
}

// NewParentIndex builds the index from a process snapshot.
func NewParentIndex(procs []domain.ProcessInfo) *ParentIndex {
	idx := &ParentIndex{
		parents: make(map[int]int, len(procs)),
		names:   make(map[int]string, len(procs)),
	}
	for _, p := range procs {
		if p.PID == 0 {
			continue
		}
		idx.parents[p.PID] = p.PPID
		idx.names[p.PID] = p.Name
	}
	return idx
}

// Parent returns the parent pid of pid.
func (idx *ParentIndex) Parent(pid int) (int, bool) {
	if idx == nil {
		return 0, false
	}
	ppid, ok := idx.parents[pid]
	return ppid, ok
}

// ParentName returns the name of pid's parent, or "" when unknown.
func (idx *ParentIndex) ParentName(pid int) string {
	ppid, ok := idx.Parent(pid)
	if !ok || ppid == 0 || ppid == pid {
		return ""
	}
	return idx.names[ppid]
}

// Len returns the number of indexed processes.
func (idx *ParentIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.parents)
}

// DefaultCategorizer implements domain.Categorizer over the Rules table.
// Without a parent index the gaming-parent rule never fires.
type DefaultCategorizer struct {
	parents *ParentIndex
}

// NewCategorizer creates a categorizer without parent information.
func NewCategorizer() *DefaultCategorizer {
	return &DefaultCategorizer{}
}

// WithParents returns a copy of the categorizer that consults idx.
func (c *DefaultCategorizer) WithParents(idx *ParentIndex) *DefaultCategorizer {
	return &DefaultCategorizer{parents: idx}
}

// Categorize returns the category of the first matching rule.
func (c *DefaultCategorizer) Categorize(pid int, name, path string) domain.Category {
	category, _ := c.Match(pid, name, path)
	return category
}

// Match returns the category and the name of the rule that produced it.
func (c *DefaultCategorizer) Match(pid int, name, path string) (domain.Category, string) {
	subject := NewSubject(pid, name, path, c.parents.ParentName(pid))
	for _, rule := range Rules {
		if rule.Match(subject) {
			return rule.Category, rule.Name
		}
	}
	return domain.CategoryUnknown, RuleUnknown
}

// IsCritical checks the critical list by exact, case-insensitive name.
func (c *DefaultCategorizer) IsCritical(name string) bool {
	return equalsAny(name, CriticalNames)
}

// Ensure DefaultCategorizer implements domain.Categorizer.
var _ domain.Categorizer = (*DefaultCategorizer)(nil)
