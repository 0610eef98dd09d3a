package domain

// ProcessEnumerator lists live processes.
// Implementation: uses gopsutil for cross-platform support.
type ProcessEnumerator interface {
	// Enumerate returns a complete snapshot of visible processes.
	// IsForeground is set against the single current foreground process.
	Enumerate() ([]ProcessInfo, error)

	// ForegroundPID returns the pid owning the active window, if any.
	ForegroundPID() (int, bool)

	// CurrentPID returns the pid of this program.
	CurrentPID() int
}

// ProcessController suspends and resumes processes.
// Neither call tracks nesting: freezing twice then resuming once is not accounted for.
type ProcessController interface {
	// Freeze suspends every thread of pid and returns how many were suspended.
	Freeze(pid int) (int, error)

	// Resume resumes every thread of pid and returns how many were resumed.
	Resume(pid int) (int, error)
}

// ProcessPort is the full OS capability consumed by the engine.
type ProcessPort interface {
	ProcessEnumerator
	ProcessController
}

// Categorizer maps a process identity to a category.
type Categorizer interface {
	// Categorize assigns exactly one category.
	Categorize(pid int, name, path string) Category

	// IsCritical reports whether name is an OS-critical process.
	IsCritical(name string) bool
}

// StateStore persists which processes are frozen, for crash recovery.
// Implementation: JSON file in the system temp directory.
type StateStore interface {
	// Save overwrites the stored state.
	Save(state *PersistedState) error

	// Load returns nil, nil when no state was stored.
	Load() (*PersistedState, error)

	// Delete removes stored state. Deleting missing state is not an error.
	Delete() error

	// Path returns the backing file path.
	Path() string
}

// StartupRegistrar registers the daemon to launch at login.
type StartupRegistrar interface {
	// Install registers execPath to be launched in daemon mode.
	Install(execPath string) error

	// Uninstall removes the registration. Missing registration is not an error.
	Uninstall() error

	// IsInstalled checks whether a registration exists.
	IsInstalled() bool

	// Location describes where the registration lives (for status output).
	Location() string
}

// FreezeJournal records freeze history.
type FreezeJournal interface {
	// Record appends an event.
	Record(event JournalEvent) error

	// Recent returns up to limit events, newest first.
	Recent(limit int) ([]JournalEvent, error)

	// Close releases resources (e.g., database connection).
	Close() error
}

// KeyProvider abstracts the source of the journal encryption key.
type KeyProvider interface {
	// GetKey returns the encryption key bytes.
	GetKey() ([]byte, error)

	// StoreKey persists a new encryption key.
	StoreKey(key []byte) error

	// KeyExists checks if a key has been generated.
	KeyExists() bool
}
