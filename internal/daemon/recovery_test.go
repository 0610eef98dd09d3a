package daemon

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/monitoring"
)

func TestRecover_ResumesValidRecordsAndDeletesFile(t *testing.T) {
	h := newDesktop(t)

	// A previous run froze chrome and onedrive, then crashed.
	_, err := h.port.Freeze(chromeProc.PID)
	require.NoError(t, err)
	_, err = h.port.Freeze(onedriveProc.PID)
	require.NoError(t, err)

	state := domain.NewPersistedState()
	state.Add(domain.NewFrozenProcess(chromeProc.PID, chromeProc.Name, chromeProc.Path, h.now.Add(-10*time.Minute)))
	state.Add(domain.NewFrozenProcess(onedriveProc.PID, onedriveProc.Name, onedriveProc.Path, h.now.Add(-2*time.Hour)))
	state.Add(domain.NewFrozenProcess(999, "gone.exe", `C:\gone.exe`, h.now.Add(-time.Minute)))
	h.store.Seed(state)

	result := h.daemon.Recover()

	assert.Equal(t, RecoveryResult{Resumed: 1, Failed: 1, Stale: 1}, result)
	assert.False(t, h.port.IsFrozen(chromeProc.PID))

	// Stale records are dropped without a resume attempt.
	assert.True(t, h.port.IsFrozen(onedriveProc.PID))
	_, resumes := h.port.Calls()
	assert.NotContains(t, resumes, onedriveProc.PID)

	assert.False(t, h.store.Exists())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RecoveredTotal.WithLabelValues(monitoring.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RecoveredTotal.WithLabelValues(monitoring.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RecoveredTotal.WithLabelValues("stale")))

	events := h.journal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.ActionRecover, events[0].Action)
	assert.True(t, events[0].OK)
	assert.False(t, events[1].OK)
}

func TestRecover_NoStateFile(t *testing.T) {
	h := newDesktop(t)

	result := h.daemon.Recover()
	assert.Equal(t, RecoveryResult{}, result)
	_, resumes := h.port.Calls()
	assert.Empty(t, resumes)
}

func TestRecover_AllStale(t *testing.T) {
	h := newDesktop(t)
	state := domain.NewPersistedState()
	state.Add(domain.FrozenProcess{PID: chromeProc.PID, Name: chromeProc.Name, Timestamp: 0})
	h.store.Seed(state)

	result := h.daemon.Recover()
	assert.Equal(t, RecoveryResult{Stale: 1}, result)
	assert.False(t, h.store.Exists())
	_, resumes := h.port.Calls()
	assert.Empty(t, resumes)
}

func TestRecover_EmptyStateStillDeleted(t *testing.T) {
	h := newDesktop(t)
	h.store.Seed(domain.NewPersistedState())

	h.daemon.Recover()
	assert.False(t, h.store.Exists())
	assert.Equal(t, 1, h.store.Deletes)
}
