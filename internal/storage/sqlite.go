// Package storage provides SQLite-based persistence for solver results and
// level completions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
)

// ErrNotCacheable is returned when saving a result that depends on the
// search cap rather than on the board.
var ErrNotCacheable = errors.New("storage: result is not cacheable")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Solution is a cached solver result for one board state of a level.
type Solution struct {
	ID        int64
	LevelID   string
	StateKey  string // Canonical board tokens, see core.State.String
	Outcome   solver.Outcome
	Moves     []core.Move
	Explored  int
	CreatedAt time.Time
}

// Completion records a level finished by a player.
type Completion struct {
	ID        int64
	LevelID   string
	SessionID string
	Moves     int
	CreatedAt time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS solutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			state_key TEXT NOT NULL,
			outcome TEXT NOT NULL,
			moves TEXT NOT NULL DEFAULT '',
			explored INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(level_id, state_key)
		);
		CREATE INDEX IF NOT EXISTS idx_solutions_level_id ON solutions(level_id);

		CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			moves INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_completions_level_id ON completions(level_id);
		CREATE INDEX IF NOT EXISTS idx_completions_best ON completions(level_id, moves ASC);
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

// SaveSolution stores the result of solving state on a level, replacing any
// earlier result for the same state. Capped results are rejected with
// ErrNotCacheable.
func (s *Store) SaveSolution(levelID string, state core.State, res solver.Result) error {
	if res.Outcome == solver.OutcomeLimitReached {
		return ErrNotCacheable
	}

	_, err := s.db.Exec(
		`INSERT INTO solutions (level_id, state_key, outcome, moves, explored)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(level_id, state_key) DO UPDATE SET
			outcome = excluded.outcome,
			moves = excluded.moves,
			explored = excluded.explored,
			created_at = CURRENT_TIMESTAMP`,
		levelID, state.String(), res.Outcome.String(), core.FormatMoves(res.Moves), res.Explored,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save solution: %w", err)
	}
	return nil
}

// LookupSolution returns the cached result for state on a level.
// Returns nil, nil if nothing is cached.
func (s *Store) LookupSolution(levelID string, state core.State) (*Solution, error) {
	row := s.db.QueryRow(
		`SELECT id, level_id, state_key, outcome, moves, explored, created_at
		 FROM solutions
		 WHERE level_id = ? AND state_key = ?`,
		levelID, state.String(),
	)

	sol, err := scanSolution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solution: %w", err)
	}
	return sol, nil
}

// RecentSolutions retrieves the most recently cached results.
func (s *Store) RecentSolutions(limit int) ([]Solution, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, state_key, outcome, moves, explored, created_at
		 FROM solutions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solutions: %w", err)
	}
	defer rows.Close()

	var out []Solution
	for rows.Next() {
		sol, err := scanSolution(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, *sol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// ClearLevel deletes every cached result for a level.
func (s *Store) ClearLevel(levelID string) error {
	_, err := s.db.Exec("DELETE FROM solutions WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear solutions: %w", err)
	}
	return nil
}

// RecordCompletion records that a level was finished in the given number of
// moves. Returns the ID of the inserted record.
func (s *Store) RecordCompletion(levelID, sessionID string, moves int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO completions (level_id, session_id, moves) VALUES (?, ?, ?)",
		levelID, sessionID, moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save completion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestCompletions retrieves the N completions with the fewest moves.
func (s *Store) BestCompletions(levelID string, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, session_id, moves, created_at
		 FROM completions
		 WHERE level_id = ?
		 ORDER BY moves ASC, created_at ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	defer rows.Close()

	var entries []Completion
	for rows.Next() {
		var c Completion
		var createdAt any
		if err := rows.Scan(&c.ID, &c.LevelID, &c.SessionID, &c.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		entries = append(entries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestMoves returns the fewest moves any player needed for a level.
// Returns 0 if the level was never completed.
func (s *Store) BestMoves(levelID string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(moves) FROM completions WHERE level_id = ?",
		levelID,
	).Scan(&best)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best moves: %w", err)
	}

	if !best.Valid {
		return 0, nil
	}

	return int(best.Int64), nil
}

// Stats contains aggregated statistics for the whole database.
type Stats struct {
	Solutions   int
	Levels      int // Distinct levels with cached results
	Unsolvable  int
	Completions int
	LastSolved  time.Time
}

// GetStats retrieves aggregated statistics.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT level_id), COALESCE(SUM(outcome = ?), 0)
		 FROM solutions`,
		solver.OutcomeUnsolvable.String(),
	).Scan(&stats.Solutions, &stats.Levels, &stats.Unsolvable)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get solution stats: %w", err)
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM completions").Scan(&stats.Completions); err != nil {
		return nil, fmt.Errorf("storage: cannot count completions: %w", err)
	}

	var lastSolved any
	err = s.db.QueryRow(
		`SELECT created_at FROM solutions ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&lastSolved)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last solved: %w", err)
	}
	if err == nil {
		stats.LastSolved = parseTime(lastSolved)
	}

	return stats, nil
}

// LevelStats contains aggregated completion statistics for a level.
type LevelStats struct {
	LevelID     string
	Completions int
	BestMoves   int
	AvgMoves    float64
	LastPlayed  time.Time
}

// GetLevelStats retrieves completion statistics for a specific level.
func (s *Store) GetLevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(moves), 0), COALESCE(AVG(moves), 0), MAX(created_at)
		 FROM completions WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Completions, &stats.BestMoves, &stats.AvgMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolution(row rowScanner) (*Solution, error) {
	var sol Solution
	var outcome, moves string
	var createdAt any
	if err := row.Scan(&sol.ID, &sol.LevelID, &sol.StateKey, &outcome, &moves, &sol.Explored, &createdAt); err != nil {
		return nil, err
	}

	o, err := solver.ParseOutcome(outcome)
	if err != nil {
		return nil, err
	}
	sol.Outcome = o

	sol.Moves, err = core.ParseMoves(moves)
	if err != nil {
		return nil, err
	}
	sol.CreatedAt = parseTime(createdAt)
	return &sol, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
