// Package storage provides SQLite-based persistence for the attempt history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Outcome is how an attempt ended.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeDied Outcome = "died"
)

// Store manages the SQLite database connection for the attempt history.
type Store struct {
	db *sql.DB
}

// Attempt is one finished life on a level.
type Attempt struct {
	ID        int64
	Level     int
	Outcome   Outcome
	Cause     string // Death cause, empty on a win
	Coins     int
	Distance  int // Furthest column reached
	Duration  time.Duration
	Overrides []string // Debug toggles that were active
	CreatedAt time.Time
}

// LevelStats aggregates the history of one level.
type LevelStats struct {
	Level        int
	Attempts     int
	Wins         int
	Deaths       int
	Coins        int
	BestDistance int
	FastestWin   time.Duration // Zero if the level was never won
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			cause TEXT NOT NULL DEFAULT '',
			coins INTEGER NOT NULL DEFAULT 0,
			distance INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			overrides TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_level ON attempts(level);
		CREATE INDEX IF NOT EXISTS idx_attempts_distance ON attempts(level, distance DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordAttempt appends an attempt to the history.
// A zero CreatedAt is stamped with the current time.
// Returns the ID of the inserted record.
func (s *Store) RecordAttempt(a Attempt) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO attempts
		 (level, outcome, cause, coins, distance, duration_ms, overrides, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Level,
		string(a.Outcome),
		a.Cause,
		a.Coins,
		a.Distance,
		a.Duration.Milliseconds(),
		strings.Join(a.Overrides, ","),
		a.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentAttempts retrieves the latest attempts on a level, newest first.
func (s *Store) RecentAttempts(level, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level, outcome, cause, coins, distance, duration_ms, overrides, created_at
		 FROM attempts
		 WHERE level = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var outcome, overrides string
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&a.ID, &a.Level, &outcome, &a.Cause, &a.Coins, &a.Distance,
			&durationMS, &overrides, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		a.Outcome = Outcome(outcome)
		a.Duration = time.Duration(durationMS) * time.Millisecond
		if overrides != "" {
			a.Overrides = strings.Split(overrides, ",")
		}
		a.CreatedAt = parseTime(createdAt)
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return attempts, nil
}

// BestDistance returns the furthest column reached on a level.
// ok is false if the level has no history.
func (s *Store) BestDistance(level int) (best int, ok bool, err error) {
	var distance sql.NullInt64
	err = s.db.QueryRow(
		"SELECT MAX(distance) FROM attempts WHERE level = ?",
		level,
	).Scan(&distance)

	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best distance: %w", err)
	}

	if !distance.Valid {
		return 0, false, nil
	}

	return int(distance.Int64), true, nil
}

// LevelStats aggregates every attempt on a level.
func (s *Store) LevelStats(level int) (LevelStats, error) {
	stats := LevelStats{Level: level}
	var bestDistance, fastestMS sql.NullInt64

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = 'won'), 0),
		        COALESCE(SUM(outcome = 'died'), 0),
		        COALESCE(SUM(coins), 0),
		        MAX(distance),
		        MIN(CASE WHEN outcome = 'won' THEN duration_ms END)
		 FROM attempts
		 WHERE level = ?`,
		level,
	).Scan(&stats.Attempts, &stats.Wins, &stats.Deaths, &stats.Coins, &bestDistance, &fastestMS)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query level stats: %w", err)
	}

	if bestDistance.Valid {
		stats.BestDistance = int(bestDistance.Int64)
	}
	if fastestMS.Valid {
		stats.FastestWin = time.Duration(fastestMS.Int64) * time.Millisecond
	}

	return stats, nil
}

// ClearLevel deletes the history of a level.
func (s *Store) ClearLevel(level int) error {
	_, err := s.db.Exec("DELETE FROM attempts WHERE level = ?", level)
	if err != nil {
		return fmt.Errorf("storage: cannot clear attempts: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string column values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
