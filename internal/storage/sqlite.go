// Package storage provides SQLite-based persistence for bot run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run represents one finished self-play session.
type Run struct {
	ID        string // UUID, assigned by SaveRun when empty
	Seed      uint64
	Evaluator string
	Preset    string
	Pieces    int
	Lines     int
	Attack    int
	ToppedOut bool
	Duration  time.Duration
	CreatedAt time.Time
}

// APP returns the attack per piece of the run.
func (r Run) APP() float64 {
	if r.Pieces == 0 {
		return 0
	}
	return float64(r.Attack) / float64(r.Pieces)
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
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			evaluator TEXT NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			pieces INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			attack INTEGER NOT NULL,
			topped_out INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_evaluator ON runs(evaluator);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(evaluator, attack DESC);
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

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, seed, evaluator, preset, pieces, lines, attack, topped_out, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		int64(r.Seed), // stored bit for bit, SQLite integers are signed
		r.Evaluator,
		r.Preset,
		r.Pieces,
		r.Lines,
		r.Attack,
		r.ToppedOut,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	return r.ID, nil
}

const runColumns = `id, seed, evaluator, preset, pieces, lines, attack, topped_out, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var seed, durationMS int64
	var createdAt any
	if err := row.Scan(&r.ID, &seed, &r.Evaluator, &r.Preset, &r.Pieces, &r.Lines,
		&r.Attack, &r.ToppedOut, &durationMS, &createdAt); err != nil {
		return Run{}, err
	}
	r.Seed = uint64(seed)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// TopRuns retrieves the top N runs for the given evaluator, or for all
// evaluators when evaluator is empty.
// Results are ordered by attack descending, then by fewer pieces.
func (s *Store) TopRuns(evaluator string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR evaluator = ?
		 ORDER BY attack DESC, pieces ASC
		 LIMIT ?`,
		evaluator, evaluator, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run by its ID. Returns nil if it does not exist.
func (s *Store) RunByID(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// BestAttack returns the highest attack recorded for the given evaluator.
// Returns 0 if no runs exist.
func (s *Store) BestAttack(evaluator string) (int, error) {
	var attack sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(attack) FROM runs WHERE evaluator = ?",
		evaluator,
	).Scan(&attack)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best attack: %w", err)
	}

	if !attack.Valid {
		return 0, nil
	}

	return int(attack.Int64), nil
}

// ClearRuns deletes all runs for the given evaluator.
func (s *Store) ClearRuns(evaluator string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE evaluator = ?", evaluator)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// EvaluatorStats contains aggregated statistics for an evaluator.
type EvaluatorStats struct {
	Evaluator   string
	RunsCount   int
	BestAttack  int
	AvgAttack   float64
	TotalPieces int64
	LastRun     time.Time
}

// GetAllStats retrieves statistics for every evaluator that has runs.
func (s *Store) GetAllStats() (map[string]*EvaluatorStats, error) {
	rows, err := s.db.Query(
		`SELECT evaluator, COUNT(*), MAX(attack), AVG(attack), SUM(pieces), MAX(created_at)
		 FROM runs
		 GROUP BY evaluator`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get evaluator stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*EvaluatorStats)
	for rows.Next() {
		var st EvaluatorStats
		var lastRun any
		if err := rows.Scan(&st.Evaluator, &st.RunsCount, &st.BestAttack, &st.AvgAttack, &st.TotalPieces, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats[st.Evaluator] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
