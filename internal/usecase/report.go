package usecase

import (
	"context"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/policy"
)

// Summary aggregates a dry-run scan.
type Summary struct {
	Scanned        int    `json:"scanned"`
	AboveThreshold int    `json:"above_threshold"`
	SafeCount      int    `json:"safe_to_freeze_count"`
	ProtectedCount int    `json:"protected_count"`
	SafeMemoryMB   uint64 `json:"total_memory_mb"`
}

// Report is the result of a dry run: what would be frozen and what is protected.
type Report struct {
	ThresholdMB       uint64
	KeepCommunication bool
	Candidates        []domain.ProcessRecord // Largest first
	Protected         []domain.ProcessRecord // Above threshold but not selected, largest first
	Summary           Summary
}

// BuildReport runs one enumeration and splits it into candidates and protected processes.
func (e *Engine) BuildReport(ctx context.Context) (*Report, error) {
	records, err := e.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	candidates := e.selectSafe(records)
	selected := make(map[int]bool, len(candidates))
	for _, r := range candidates {
		selected[r.PID] = true
	}

	protected := make([]domain.ProcessRecord, 0)
	above := 0
	for _, r := range records {
		if r.MemoryMB < e.config.MinMemoryMB {
			continue
		}
		above++
		if !selected[r.PID] {
			protected = append(protected, r)
		}
	}
	sortByMemory(protected)

	return &Report{
		ThresholdMB:       e.config.MinMemoryMB,
		KeepCommunication: e.config.KeepCommunication,
		Candidates:        candidates,
		Protected:         protected,
		Summary:           Summarize(records, candidates, len(protected), above),
	}, nil
}

// Summarize computes report totals.
func Summarize(all, candidates []domain.ProcessRecord, protected, above int) Summary {
	s := Summary{
		Scanned:        len(all),
		AboveThreshold: above,
		SafeCount:      len(candidates),
		ProtectedCount: protected,
	}
	for _, r := range candidates {
		s.SafeMemoryMB += r.MemoryMB
	}
	return s
}

// ProtectionReason explains why a protected record was not selected.
func (r *Report) ProtectionReason(rec domain.ProcessRecord) string {
	if reason := policy.ProtectionReason(rec); reason != "" {
		return reason
	}
	if rec.Category == domain.CategoryCommunication && r.KeepCommunication {
		return "Communication"
	}
	return "Self"
}
