package infra

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

func TestFileStateStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	store := NewFileStateStoreWithPath(path)

	now := time.Unix(1_700_000_000, 0)
	state := domain.NewPersistedState()
	state.Add(domain.NewFrozenProcess(1234, "test.exe", `C:\test.exe`, now))
	state.Add(domain.NewFrozenProcess(5678, "another.exe", `C:\another.exe`, now))

	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.FrozenProcesses, loaded.FrozenProcesses)
}

func TestFileStateStore_WireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	store := NewFileStateStoreWithPath(path)

	state := domain.NewPersistedState()
	state.Add(domain.FrozenProcess{PID: 42, Name: "a.exe", ExePath: `C:\a.exe`, Timestamp: 100})
	require.NoError(t, store.Save(state))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{`"frozenProcesses"`, `"pid": 42`, `"name": "a.exe"`, `"exePath"`, `"timestamp": 100`} {
		assert.True(t, strings.Contains(string(data), key), "missing %s in %s", key, data)
	}
}

func TestFileStateStore_EmptyStateIsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	store := NewFileStateStoreWithPath(path)

	require.NoError(t, store.Save(&domain.PersistedState{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"frozenProcesses": []`)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
	assert.NotNil(t, loaded.FrozenProcesses)
}

func TestFileStateStore_LoadMissing(t *testing.T) {
	store := NewFileStateStoreWithPath(filepath.Join(t.TempDir(), "absent.json"))

	state, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, state)
}

func TestFileStateStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStateStoreWithPath(path).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStateEncoding))
}

func TestFileStateStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	store := NewFileStateStoreWithPath(path)

	require.NoError(t, store.Save(domain.NewPersistedState()))
	require.NoError(t, store.Delete())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is fine.
	assert.NoError(t, store.Delete())
}

func TestFileStateStore_NoTempFileLeft(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStateStoreWithPath(filepath.Join(dir, StateFileName))
	require.NoError(t, store.Save(domain.NewPersistedState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StateFileName, entries[0].Name())
}

func TestDefaultStatePath(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), "smartfreeze_state.json"), DefaultStatePath())
	assert.Equal(t, DefaultStatePath(), NewFileStateStore().Path())
}
