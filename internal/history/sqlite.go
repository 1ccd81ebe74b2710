package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    flow TEXT NOT NULL,
    prompt TEXT,
    model TEXT,
    kind TEXT,
    status TEXT NOT NULL CHECK (status IN ('completed', 'cancelled', 'failed', 'empty')),
    code_bytes INTEGER DEFAULT 0,
    error TEXT,
    duration_ms INTEGER DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// schemaVersion is bumped together with a new entry in migrations.
const schemaVersion = 1

type migration struct {
	version     int
	description string
	up          func(db *sql.DB) error
}

var migrations = []migration{}

// NewSQLiteStore opens (and creates if needed) the history database.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		dbPath = GetDBPath()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	store := &SQLiteStore{db: db, cfg: cfg}
	if err := store.cleanup(); err != nil {
		slog.Warn("history cleanup failed", "error", err)
	}
	return store, nil
}

func initSchema(db *sql.DB) error {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version").Scan(&currentVersion)
	if err == nil && currentVersion >= schemaVersion {
		return nil
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create base schema: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	if err != nil {
		if err != sql.ErrNoRows && !strings.Contains(err.Error(), "no such table") {
			return fmt.Errorf("get current version: %w", err)
		}
		// Fresh database: the base schema is already current.
		currentVersion = schemaVersion
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", currentVersion); err != nil {
			return fmt.Errorf("insert initial version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if err := m.up(db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if _, err := db.Exec("UPDATE schema_version SET version = ?", m.version); err != nil {
			return fmt.Errorf("update version to %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *SQLiteStore) cleanup() error {
	if s.cfg.MaxCount <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM runs WHERE id IN (
			SELECT id FROM runs
			ORDER BY created_at DESC
			LIMIT -1 OFFSET ?
		)`, s.cfg.MaxCount)
	if err != nil {
		return fmt.Errorf("enforce max count: %w", err)
	}
	return nil
}

// Record inserts e, filling in ID and CreatedAt when unset.
func (s *SQLiteStore) Record(ctx context.Context, e *Entry) error {
	prepare(e)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, flow, prompt, model, kind, status, code_bytes, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Flow, e.Prompt, e.Model, e.Kind, string(e.Status), e.CodeBytes, e.Error,
		e.Duration.Milliseconds(), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := `
		SELECT id, flow, prompt, model, kind, status, code_bytes, error, duration_ms, created_at
		FROM runs
		WHERE 1=1`
	args := []any{}

	if opts.Flow != "" {
		query += " AND flow = ?"
		args = append(args, opts.Flow)
	}
	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, string(opts.Status))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		var prompt, model, kind, errText sql.NullString
		var status string
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.Flow, &prompt, &model, &kind, &status,
			&e.CodeBytes, &errText, &durationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Prompt = prompt.String
		e.Model = model.String
		e.Kind = kind.String
		e.Error = errText.String
		e.Status = Status(status)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, e)
	}
	return results, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
