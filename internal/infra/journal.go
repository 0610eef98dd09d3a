package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlcipher "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// Ensure sqlcipher driver is registered.
var _ = sqlcipher.ErrBusy

const (
	journalDBName   = "journal.db"
	journalSchemaV1 = "1"
)

// EncryptedJournal implements domain.FreezeJournal on a SQLCipher database.
type EncryptedJournal struct {
	db     *sql.DB
	dbPath string
}

// OpenJournal opens the journal in dataDir, creating its key on first use.
func OpenJournal(dataDir string) (*EncryptedJournal, error) {
	key, err := LoadOrCreateKey(NewJournalKeyFile(dataDir))
	if err != nil {
		return nil, err
	}
	return NewEncryptedJournal(dataDir, key)
}

// NewEncryptedJournal opens (or creates) the journal database with key as
// the SQLCipher passphrase.
func NewEncryptedJournal(dataDir string, key []byte) (*EncryptedJournal, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, journalDBName)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, hex.EncodeToString(key))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// A wrong key only surfaces on first query
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	j := &EncryptedJournal{db: db, dbPath: dbPath}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}

	return j, nil
}

func (j *EncryptedJournal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS freeze_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		pid INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		ok INTEGER NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_freeze_events_at ON freeze_events (at);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return err
	}
	_, err := j.db.Exec(`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?)`, journalSchemaV1)
	return err
}

// Record appends an event. A zero At is stamped with the current time.
func (j *EncryptedJournal) Record(event domain.JournalEvent) error {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	ok := 0
	if event.OK {
		ok = 1
	}

	_, err := j.db.Exec(`
		INSERT INTO freeze_events (session_id, action, pid, name, ok, detail, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.SessionID, string(event.Action), event.PID, event.Name, ok, event.Detail, at.UnixMilli(),
	)
	return err
}

// Recent returns up to limit events, newest first.
func (j *EncryptedJournal) Recent(limit int) ([]domain.JournalEvent, error) {
	if limit <= 0 {
		return []domain.JournalEvent{}, nil
	}

	rows, err := j.db.Query(`
		SELECT session_id, action, pid, name, ok, detail, at
		FROM freeze_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.JournalEvent, 0, limit)
	for rows.Next() {
		var (
			e      domain.JournalEvent
			action string
			ok     int
			at     int64
		)
		if err := rows.Scan(&e.SessionID, &action, &e.PID, &e.Name, &ok, &e.Detail, &at); err != nil {
			return nil, err
		}
		e.Action = domain.JournalAction(action)
		e.OK = ok != 0
		e.At = time.UnixMilli(at)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Prune deletes events recorded before cutoff and returns how many were removed.
func (j *EncryptedJournal) Prune(cutoff time.Time) (int64, error) {
	result, err := j.db.Exec(`DELETE FROM freeze_events WHERE at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Path returns the database file path.
func (j *EncryptedJournal) Path() string {
	return j.dbPath
}

// Close releases the database connection.
func (j *EncryptedJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Ensure EncryptedJournal implements domain.FreezeJournal.
var _ domain.FreezeJournal = (*EncryptedJournal)(nil)
