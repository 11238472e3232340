package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Journal is a local SQLite log of persistence operations that never made it
// to the database. It exists so a sync problem during a workout leaves a
// durable trace instead of vanishing with the process.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (or creates) the journal database at dir/journal.db.
func OpenJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sync_failures (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		op          TEXT NOT NULL,
		detail      TEXT NOT NULL,
		occurred_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal table: %w", err)
	}

	return &Journal{db: db}, nil
}

// RecordFailure appends a failed operation to the journal.
func (j *Journal) RecordFailure(op, detail string) error {
	_, err := j.db.Exec(
		`INSERT INTO sync_failures (op, detail) VALUES (?, ?)`,
		op, detail,
	)
	return err
}

// Failure is one journaled sync failure.
type Failure struct {
	ID         int64     `json:"id"`
	Op         string    `json:"op"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RecentFailures returns the newest journaled failures, most recent first.
func (j *Journal) RecentFailures(limit int) ([]Failure, error) {
	rows, err := j.db.Query(
		`SELECT id, op, detail, occurred_at FROM sync_failures ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var result []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.ID, &f.Op, &f.Detail, &f.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// FailureCount returns the total number of journaled failures.
func (j *Journal) FailureCount() (int, error) {
	var count int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM sync_failures`).Scan(&count)
	return count, err
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
