package daemon

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/monitoring"
)

const recoveredStale = "stale"

// RecoveryResult summarizes a crash recovery pass.
type RecoveryResult struct {
	Resumed int
	Failed  int
	Stale   int
}

// Recover resumes processes a previous run left frozen, then deletes the
// state file. Stale records are dropped without a resume attempt.
func (d *Daemon) Recover() RecoveryResult {
	var result RecoveryResult

	state, err := d.store.Load()
	if err != nil {
		// An unreadable file can never be recovered; drop it.
		d.logger.Warn("failed to load state, discarding",
			zap.String("path", d.store.Path()),
			zap.Error(err))
		d.deleteState()
		return result
	}
	if state == nil {
		return result
	}

	now := d.now()
	valid := state.ValidProcesses(now)
	result.Stale = len(state.FrozenProcesses) - len(valid)

	if len(valid) > 0 {
		d.logger.Info("recovering from previous crash", zap.Int("frozen_processes", len(valid)))
	}

	for _, p := range valid {
		_, err := d.engine.ResumeProcess(p.PID)
		d.record(domain.ActionRecover, p.PID, p.Name, err)
		if err != nil {
			result.Failed++
			d.metrics.RecordRecovered(monitoring.ResultError)
			d.logger.Warn("failed to resume recovered process",
				zap.Int("pid", p.PID),
				zap.String("name", p.Name),
				zap.Error(err))
			continue
		}
		result.Resumed++
		d.metrics.RecordRecovered(monitoring.ResultOK)
		d.logger.Info("resumed recovered process",
			zap.Int("pid", p.PID),
			zap.String("name", p.Name))
	}

	for i := 0; i < result.Stale; i++ {
		d.metrics.RecordRecovered(recoveredStale)
	}

	if len(valid) > 0 || result.Stale > 0 {
		d.logger.Info("recovery complete",
			zap.Int("resumed", result.Resumed),
			zap.Int("failed", result.Failed),
			zap.Int("stale", result.Stale))
	}

	d.deleteState()
	return result
}

func (d *Daemon) deleteState() {
	if err := d.store.Delete(); err != nil {
		d.logger.Warn("failed to delete state", zap.Error(err))
	}
}
