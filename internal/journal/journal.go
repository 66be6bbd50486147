package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Kind classifies a journal entry
type Kind string

const (
	KindSeed   Kind = "seed"   // Belief seeded from the startup probe
	KindToggle Kind = "toggle" // Toggle command sent
	KindAbsorb Kind = "absorb" // Belief snapped to an external change, no command
	KindSkip   Kind = "skip"   // Drift seen but the player probe was unknown
)

// Entry is one recorded decision
type Entry struct {
	ID           int64
	Timestamp    time.Time
	Kind         Kind
	OtherPlaying bool
	PlayerState  string
	Paused       bool   // Belief after the decision
	Error        string // Command error, if any
}

// Journal is an append-only log of daemon decisions backed by SQLite.
// The daemon never reads it back; it exists for the history command.
type Journal struct {
	db *sql.DB
}

// Open creates or opens a journal database
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection keeps :memory: databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			kind TEXT NOT NULL,
			other_playing BOOLEAN NOT NULL,
			player_state TEXT NOT NULL,
			paused BOOLEAN NOT NULL,
			error TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record appends an entry. A zero Timestamp is replaced with the current time.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	query := `
		INSERT INTO decisions (timestamp, kind, other_playing, player_state, paused, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var errText sql.NullString
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}

	result, err := j.db.ExecContext(ctx, query,
		e.Timestamp.UnixMilli(),
		string(e.Kind),
		e.OtherPlaying,
		e.PlayerState,
		e.Paused,
		errText,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}

	return id, nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, timestamp, kind, other_playing, player_state, paused, COALESCE(error, '')
		FROM decisions
		ORDER BY timestamp DESC, id DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var timestampMillis int64

		err := rows.Scan(
			&e.ID,
			&timestampMillis,
			&kind,
			&e.OtherPlaying,
			&e.PlayerState,
			&e.Paused,
			&e.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		e.Kind = Kind(kind)
		e.Timestamp = time.UnixMilli(timestampMillis)

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// Cleanup removes entries older than maxAge
func (j *Journal) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UnixMilli()

	result, err := j.db.ExecContext(ctx, `DELETE FROM decisions WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
