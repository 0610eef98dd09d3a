package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

func TestEngine_BuildReport(t *testing.T) {
	port := &mockPort{
		selfPID: 50,
		fgPID:   1,
		procs: []domain.ProcessInfo{
			{PID: 1, Name: "chrome.exe", MemoryMB: 1200},
			{PID: 2, Name: "explorer.exe", MemoryMB: 180},
			{PID: 3, Name: "onedrive.exe", MemoryMB: 300},
			{PID: 4, Name: "slack.exe", MemoryMB: 400},
			{PID: 5, Name: "tiny.exe", MemoryMB: 5},
			{PID: 50, Name: "smartfreeze.exe", MemoryMB: 120},
		},
	}
	e := newTestEngine(port, domain.SelectionConfig{MinMemoryMB: 100, KeepCommunication: true})

	report, err := e.BuildReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(100), report.ThresholdMB)
	assert.Equal(t, []int{3}, pids(report.Candidates))
	assert.Equal(t, []int{1, 4, 2, 50}, pids(report.Protected))

	assert.Equal(t, Summary{
		Scanned:        6,
		AboveThreshold: 5,
		SafeCount:      1,
		ProtectedCount: 4,
		SafeMemoryMB:   300,
	}, report.Summary)

	reasons := make(map[int]string)
	for _, r := range report.Protected {
		reasons[r.PID] = report.ProtectionReason(r)
	}
	assert.Equal(t, "Foreground", reasons[1])
	assert.Equal(t, "Critical", reasons[2])
	assert.Equal(t, "Communication", reasons[4])
	assert.Equal(t, "Self", reasons[50])
}
