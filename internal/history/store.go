package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"arteria/internal/config"
	"arteria/internal/runfolder"
	"arteria/internal/state"
)

// Transition is one recorded state write.
type Transition struct {
	ID        int64
	Runfolder string
	From      state.State
	To        state.State
	At        time.Time
}

// Store manages the transition ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database under the configured
// state directory.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("history: config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends a transition. A zero At is replaced by the current time.
func (s *Store) Record(ctx context.Context, t Transition) (*Transition, error) {
	if t.Runfolder == "" {
		return nil, errors.New("record transition: runfolder is required")
	}
	if !t.To.Valid() {
		return nil, fmt.Errorf("record transition: invalid target state %q", string(t.To))
	}
	if t.At.IsZero() {
		t.At = time.Now()
	}
	t.At = t.At.UTC()
	t.Runfolder = filepath.Clean(t.Runfolder)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO transitions (runfolder, from_state, to_state, recorded_at) VALUES (?, ?, ?, ?)`,
		t.Runfolder,
		nullableString(string(t.From)),
		string(t.To),
		t.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transition: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	return &t, nil
}

// ForRunfolder returns the transitions of one runfolder, oldest first. A
// limit <= 0 returns all of them; otherwise the newest limit entries.
func (s *Store) ForRunfolder(ctx context.Context, path string, limit int) ([]Transition, error) {
	query := `SELECT id, runfolder, from_state, to_state, recorded_at FROM (
        SELECT * FROM transitions WHERE runfolder = ? ORDER BY id DESC`
	args := []any{filepath.Clean(path)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	query += `) ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	return scanTransitions(rows)
}

// Recent returns the newest transitions across all runfolders, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, runfolder, from_state, to_state, recorded_at FROM transitions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent transitions: %w", err)
	}
	return scanTransitions(rows)
}

func scanTransitions(rows *sql.Rows) ([]Transition, error) {
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var (
			t        Transition
			from     sql.NullString
			to       string
			recorded string
		)
		if err := rows.Scan(&t.ID, &t.Runfolder, &from, &to, &recorded); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		t.From = state.State(from.String)
		t.To = state.State(to)
		at, err := time.Parse(time.RFC3339Nano, recorded)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recorded, err)
		}
		t.At = at
		out = append(out, t)
	}
	return out, rows.Err()
}

// Observer adapts the store to runfolder.StateObserver.
func (s *Store) Observer(ctx context.Context) runfolder.StateObserver {
	return observer{ctx: ctx, store: s}
}

type observer struct {
	ctx   context.Context
	store *Store
}

func (o observer) StateChanged(change runfolder.StateChange) error {
	_, err := o.store.Record(o.ctx, Transition{
		Runfolder: change.Runfolder,
		From:      change.From,
		To:        change.To,
		At:        change.At,
	})
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
