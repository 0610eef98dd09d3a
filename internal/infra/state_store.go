package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// StateFileName is the crash recovery file name inside the temp directory.
const StateFileName = "smartfreeze_state.json"

// FileStateStore implements domain.StateStore using a JSON file.
type FileStateStore struct {
	path string
}

// DefaultStatePath returns <system temp dir>/smartfreeze_state.json.
func DefaultStatePath() string {
	return filepath.Join(os.TempDir(), StateFileName)
}

// NewFileStateStore creates a state store at the default location.
func NewFileStateStore() domain.StateStore {
	return &FileStateStore{path: DefaultStatePath()}
}

// NewFileStateStoreWithPath creates a state store at a specific path (for testing).
func NewFileStateStoreWithPath(path string) domain.StateStore {
	return &FileStateStore{path: path}
}

// Path returns the state file path.
func (s *FileStateStore) Path() string {
	return s.path
}

// Save overwrites the state file.
func (s *FileStateStore) Save(state *domain.PersistedState) error {
	if state == nil {
		state = domain.NewPersistedState()
	}
	if state.FrozenProcesses == nil {
		state = &domain.PersistedState{FrozenProcesses: []domain.FrozenProcess{}}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStateEncoding, err)
	}

	if err := writeFileAtomic(s.path, data, 0755, 0600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStateIO, err)
	}
	return nil
}

// Load reads the state file. A missing file returns nil, nil.
func (s *FileStateStore) Load() (*domain.PersistedState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStateIO, err)
	}

	var state domain.PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStateEncoding, err)
	}
	if state.FrozenProcesses == nil {
		state.FrozenProcesses = []domain.FrozenProcess{}
	}

	return &state, nil
}

// Delete removes the state file. A missing file is not an error.
func (s *FileStateStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrStateIO, err)
	}
	return nil
}

// Ensure FileStateStore implements domain.StateStore.
var _ domain.StateStore = (*FileStateStore)(nil)
