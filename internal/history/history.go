package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dshills/hoodscan/internal/report"
)

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get when no run has the given ID.
var ErrNotFound = errors.New("run not found")

// Run is one recorded pipeline execution.
type Run struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"createdAt"`
	ThreadURL string               `json:"threadUrl"`
	Title     string               `json:"title"`
	Provider  string               `json:"provider"`
	Model     string               `json:"model"`
	Comments  int                  `json:"comments"`
	Mentioned int                  `json:"mentioned"`
	Top       string               `json:"top,omitempty"`
	TotalMs   int64                `json:"totalMs"`
	Results   []report.FinalRecord `json:"results,omitempty"`
}

// Store keeps past runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: ensure dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    thread_url TEXT NOT NULL,
    title TEXT,
    provider TEXT,
    model TEXT,
    comments INTEGER NOT NULL,
    mentioned INTEGER NOT NULL,
    top TEXT,
    total_ms INTEGER NOT NULL,
    results TEXT NOT NULL -- JSON array of final records
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("history: init schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r. Recording the same run twice replaces the earlier row.
func (s *Store) Record(ctx context.Context, r *report.Report) error {
	results, err := json.Marshal(r.Results)
	if err != nil {
		return fmt.Errorf("history: encode results: %w", err)
	}
	const q = `INSERT OR REPLACE INTO runs
        (id, created_at, thread_url, title, provider, model, comments, mentioned, top, total_ms, results)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q,
		r.RunID,
		r.CreatedAt.UTC().Format(timeLayout),
		r.Thread.URL,
		r.Thread.Title,
		r.Inputs.Provider,
		r.Inputs.Model,
		r.Inputs.Comments,
		r.Summary.Mentioned,
		r.Summary.Top,
		r.Timing.TotalMs,
		string(results),
	)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// List returns the most recent runs first, without their results. A limit of
// zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, created_at, thread_url, title, provider, model, comments, mentioned, top, total_ms
        FROM runs ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			created string
		)
		if err := rows.Scan(&run.ID, &created, &run.ThreadURL, &run.Title, &run.Provider,
			&run.Model, &run.Comments, &run.Mentioned, &run.Top, &run.TotalMs); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("history: run %s: bad timestamp %q", run.ID, created)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run including its results.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	const q = `SELECT id, created_at, thread_url, title, provider, model, comments, mentioned, top, total_ms, results
        FROM runs WHERE id = ?`
	var (
		run     Run
		created string
		results string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&run.ID, &created, &run.ThreadURL, &run.Title,
		&run.Provider, &run.Model, &run.Comments, &run.Mentioned, &run.Top, &run.TotalMs, &results)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("history: get run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Run{}, fmt.Errorf("history: run %s: bad timestamp %q", id, created)
	}
	if err := json.Unmarshal([]byte(results), &run.Results); err != nil {
		return Run{}, fmt.Errorf("history: run %s: decode results: %w", id, err)
	}
	return run, nil
}
