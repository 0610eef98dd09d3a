// Package usecase contains application business logic.
package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/policy"
)

// Engine enumerates, categorizes, selects, freezes and resumes processes.
// It is synchronous and not safe for concurrent SetConfig calls.
type Engine struct {
	port        domain.ProcessPort
	categorizer *policy.DefaultCategorizer
	config      domain.SelectionConfig
	logger      *zap.Logger
}

// NewEngine creates a freeze engine over the given process port.
func NewEngine(port domain.ProcessPort, cfg domain.SelectionConfig, logger *zap.Logger) *Engine {
	return &Engine{
		port:        port,
		categorizer: policy.NewCategorizer(),
		config:      cfg,
		logger:      logger,
	}
}

// Config returns the active selection config.
func (e *Engine) Config() domain.SelectionConfig {
	return e.config
}

// SetConfig replaces the selection config for subsequent selections.
func (e *Engine) SetConfig(cfg domain.SelectionConfig) {
	e.config = cfg
}

// ForegroundPID returns the pid owning the active window, if any.
func (e *Engine) ForegroundPID() (int, bool) {
	return e.port.ForegroundPID()
}

// Enumerate snapshots the process table and categorizes every process.
func (e *Engine) Enumerate(ctx context.Context) ([]domain.ProcessRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	procs, err := e.port.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnumerationFailed, err)
	}

	c := e.categorizer.WithParents(policy.NewParentIndex(procs))
	records := make([]domain.ProcessRecord, 0, len(procs))
	for _, p := range procs {
		category, rule := c.Match(p.PID, p.Name, p.Path)
		records = append(records, domain.ProcessRecord{
			PID:          p.PID,
			PPID:         p.PPID,
			Name:         p.Name,
			Path:         p.Path,
			MemoryMB:     p.MemoryMB,
			IsForeground: p.IsForeground,
			Category:     category,
			Rule:         rule,
		})
	}

	return records, nil
}

// FindSafeToFreeze returns processes at or above the memory threshold that
// the selection policy allows, largest first. This program is never included.
func (e *Engine) FindSafeToFreeze(ctx context.Context) ([]domain.ProcessRecord, error) {
	records, err := e.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	return e.selectSafe(records), nil
}

func (e *Engine) selectSafe(records []domain.ProcessRecord) []domain.ProcessRecord {
	self := e.port.CurrentPID()
	selected := make([]domain.ProcessRecord, 0)
	for _, r := range records {
		if r.PID == self {
			continue
		}
		if r.MemoryMB < e.config.MinMemoryMB {
			continue
		}
		if !policy.IsSafeToFreeze(r, e.config.KeepCommunication) {
			continue
		}
		selected = append(selected, r)
	}
	sortByMemory(selected)
	return selected
}

// FindGamingProcesses returns every process classified as Gaming.
func (e *Engine) FindGamingProcesses(ctx context.Context) ([]domain.ProcessRecord, error) {
	records, err := e.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	gaming := make([]domain.ProcessRecord, 0)
	for _, r := range records {
		if r.Category == domain.CategoryGaming {
			gaming = append(gaming, r)
		}
	}
	return gaming, nil
}

// FreezeProcess suspends pid and returns the number of threads suspended.
func (e *Engine) FreezeProcess(pid int) (int, error) {
	threads, err := e.port.Freeze(pid)
	if err != nil {
		return 0, &domain.FreezeError{PID: pid, Reason: err.Error(), Err: err}
	}
	return threads, nil
}

// ResumeProcess resumes pid and returns the number of threads resumed.
func (e *Engine) ResumeProcess(pid int) (int, error) {
	threads, err := e.port.Resume(pid)
	if err != nil {
		return 0, &domain.ResumeError{PID: pid, Reason: err.Error(), Err: err}
	}
	return threads, nil
}

// FreezeMany freezes each pid independently. One failure never stops the batch.
func (e *Engine) FreezeMany(pids []int) []domain.BatchResult {
	results := make([]domain.BatchResult, 0, len(pids))
	for _, pid := range pids {
		threads, err := e.FreezeProcess(pid)
		if err != nil {
			e.logger.Warn("failed to freeze process",
				zap.Int("pid", pid),
				zap.Error(err))
		} else {
			e.logger.Info("froze process",
				zap.Int("pid", pid),
				zap.Int("threads", threads))
		}
		results = append(results, domain.BatchResult{PID: pid, Threads: threads, Err: err})
	}
	return results
}

// ResumeMany resumes each pid independently. One failure never stops the batch.
func (e *Engine) ResumeMany(pids []int) []domain.BatchResult {
	results := make([]domain.BatchResult, 0, len(pids))
	for _, pid := range pids {
		threads, err := e.ResumeProcess(pid)
		if err != nil {
			e.logger.Warn("failed to resume process",
				zap.Int("pid", pid),
				zap.Error(err))
		} else {
			e.logger.Info("resumed process",
				zap.Int("pid", pid),
				zap.Int("threads", threads))
		}
		results = append(results, domain.BatchResult{PID: pid, Threads: threads, Err: err})
	}
	return results
}

func sortByMemory(records []domain.ProcessRecord) {
	slices.SortStableFunc(records, func(a, b domain.ProcessRecord) int {
		return cmp.Compare(b.MemoryMB, a.MemoryMB)
	})
}
