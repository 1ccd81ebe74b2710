// Package history keeps a local log of flow runs. Entries are write-only from
// the flows' point of view and are never sent back to the model.
package history

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samsaffron/term-copilot/internal/config"
)

// Status is the outcome of one flow run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
	StatusEmpty     Status = "empty" // the model replied but nothing was usable
)

// Entry is one recorded flow run.
type Entry struct {
	ID        string
	Flow      string
	Prompt    string
	Model     string
	Kind      string
	Status    Status
	CodeBytes int
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

// ListOptions filters List.
type ListOptions struct {
	Flow   string
	Status Status
	Limit  int // 0 means 50
}

// Store is the interface for history persistence.
type Store interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
	Close() error
}

// Config holds history storage configuration.
type Config struct {
	Enabled  bool
	Path     string // empty means GetDBPath
	MaxCount int    // keep at most N entries (0=unlimited)
}

// NewID returns a fresh entry id.
func NewID() string {
	return uuid.NewString()
}

// GetDBPath returns the path to the history database.
func GetDBPath() string {
	return filepath.Join(config.GetDataDir(), "history.db")
}

// NewStore creates a new Store based on the configuration.
// If history is disabled, returns a no-op store.
func NewStore(cfg Config) (Store, error) {
	if !cfg.Enabled {
		return &NoopStore{}, nil
	}
	return NewSQLiteStore(cfg)
}

func prepare(e *Entry) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
}
