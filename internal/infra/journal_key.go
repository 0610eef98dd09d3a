package infra

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

const (
	journalKeyFileName = ".key"
	journalKeySize     = 32 // raw SQLCipher key, passed as x'<hex>'
)

// ErrInvalidJournalKey means the key file exists but does not hold a usable key.
var ErrInvalidJournalKey = errors.New("invalid journal key")

// JournalKeyFile keeps the journal's SQLCipher key as hex in an owner-only
// file beside the database.
type JournalKeyFile struct {
	path string
}

// NewJournalKeyFile returns the key file for the journal in dataDir.
func NewJournalKeyFile(dataDir string) *JournalKeyFile {
	return &JournalKeyFile{path: filepath.Join(dataDir, journalKeyFileName)}
}

// Path returns the key file location.
func (k *JournalKeyFile) Path() string {
	return k.path
}

// GetKey reads the key. Surrounding whitespace is ignored.
func (k *JournalKeyFile) GetKey() ([]byte, error) {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal key: %w", err)
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJournalKey, err)
	}
	if len(key) != journalKeySize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidJournalKey, len(key), journalKeySize)
	}
	return key, nil
}

// StoreKey replaces the key file. The data directory is created owner-only.
func (k *JournalKeyFile) StoreKey(key []byte) error {
	if len(key) != journalKeySize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidJournalKey, len(key), journalKeySize)
	}
	if err := writeFileAtomic(k.path, []byte(hex.EncodeToString(key)+"\n"), 0700, 0600); err != nil {
		return fmt.Errorf("failed to write journal key: %w", err)
	}
	return nil
}

// KeyExists reports whether a key file is present.
func (k *JournalKeyFile) KeyExists() bool {
	_, err := os.Stat(k.path)
	return err == nil
}

// NewJournalKey returns 32 random bytes.
func NewJournalKey() ([]byte, error) {
	key := make([]byte, journalKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate journal key: %w", err)
	}
	return key, nil
}

// LoadOrCreateKey returns the stored key, creating one the first time.
// A corrupt key file is an error: replacing it would orphan the journal.
func LoadOrCreateKey(provider domain.KeyProvider) ([]byte, error) {
	if provider.KeyExists() {
		return provider.GetKey()
	}
	key, err := NewJournalKey()
	if err != nil {
		return nil, err
	}
	if err := provider.StoreKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

var _ domain.KeyProvider = (*JournalKeyFile)(nil)
