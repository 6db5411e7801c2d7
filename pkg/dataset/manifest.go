package dataset

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ManifestEntry records one persisted artifact.
type ManifestEntry struct {
	RunID     string
	Idea      string
	FileName  string
	ByteSize  int64
	CreatedAt time.Time
}

// Manifest is a SQLite audit log of persisted artifacts. Stage 2 reads the
// filesystem, not the manifest; the manifest exists so runs can be audited
// after the fact.
type Manifest struct {
	db *sql.DB
}

// OpenManifest opens (creating if needed) the manifest database at dbPath.
func OpenManifest(dbPath string) (*Manifest, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database: %w", err)
	}

	// Single sequential writer; WAL still helps concurrent readers (e.g. an
	// audit query while a run is in flight).
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply manifest schema: %w", err)
	}

	return &Manifest{db: db}, nil
}

// Record inserts one persisted artifact.
func (m *Manifest) Record(entry ManifestEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := m.db.Exec(
		`INSERT INTO artifacts (run_id, idea, file_name, byte_size, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.RunID, entry.Idea, entry.FileName, entry.ByteSize, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record artifact: %w", err)
	}
	return nil
}

// CountForRun returns the number of artifacts recorded for a run.
func (m *Manifest) CountForRun(runID string) (int, error) {
	var count int
	err := m.db.QueryRow(`SELECT COUNT(*) FROM artifacts WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count artifacts: %w", err)
	}
	return count, nil
}

// EntriesForRun returns the recorded artifacts for a run in insertion order.
func (m *Manifest) EntriesForRun(runID string) ([]ManifestEntry, error) {
	rows, err := m.db.Query(
		`SELECT run_id, idea, file_name, byte_size, created_at FROM artifacts WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	var entries []ManifestEntry
	for rows.Next() {
		var e ManifestEntry
		if err := rows.Scan(&e.RunID, &e.Idea, &e.FileName, &e.ByteSize, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the manifest database.
func (m *Manifest) Close() error {
	return m.db.Close()
}
