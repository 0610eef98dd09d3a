package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

func TestRuntimeState_Defaults(t *testing.T) {
	s := NewRuntimeState()
	assert.True(t, s.IsEnabled())
	assert.False(t, s.GameDetected())
	assert.Empty(t, s.FrozenPIDs())
	assert.Equal(t, domain.StateIdle, s.State())
}

func TestRuntimeState_FrozenSet(t *testing.T) {
	s := NewRuntimeState()
	s.AddFrozen(3, "c.exe")
	s.AddFrozen(1, "a.exe")
	s.AddFrozen(3, "c.exe")

	assert.Equal(t, []int{3, 1}, s.FrozenPIDs())
	assert.Equal(t, "a.exe", s.FrozenName(1))

	drained := s.ClearFrozen()
	assert.Equal(t, []int{3, 1}, drained)
	assert.Empty(t, s.FrozenPIDs())
	assert.Equal(t, "", s.FrozenName(1))
}

func TestRuntimeState_FrozenPIDsIsACopy(t *testing.T) {
	s := NewRuntimeState()
	s.AddFrozen(1, "a.exe")

	pids := s.FrozenPIDs()
	pids[0] = 99
	assert.Equal(t, []int{1}, s.FrozenPIDs())
}

func TestRuntimeState_StateDerivation(t *testing.T) {
	s := NewRuntimeState()
	s.gameDetected = true
	assert.Equal(t, domain.StateGameActive, s.State())

	assert.False(t, s.ToggleEnabled())
	assert.Equal(t, domain.StateDisabled, s.State())

	snap := s.Snapshot()
	assert.False(t, snap.Enabled)
	assert.True(t, snap.GameDetected)
	assert.NotNil(t, snap.FrozenPIDs)
}
