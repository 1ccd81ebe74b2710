package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, maxCount int) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(Config{
		Enabled:  true,
		Path:     filepath.Join(t.TempDir(), "nested", "history.db"),
		MaxCount: maxCount,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustRecord(t *testing.T, s Store, e *Entry) {
	t.Helper()
	if err := s.Record(context.Background(), e); err != nil {
		t.Fatalf("Record(%s): %v", e.Flow, err)
	}
}

func mustList(t *testing.T, s Store, opts ListOptions) []Entry {
	t.Helper()
	entries, err := s.List(context.Background(), opts)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return entries
}

func TestSQLiteStoreRecordAndList(t *testing.T) {
	store := newTestStore(t, 0)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := &Entry{
		Flow:      "insert",
		Prompt:    "Follow add two numbers to generate python functions",
		Model:     "gpt-4o-mini",
		Kind:      "python",
		Status:    StatusCompleted,
		CodeBytes: 25,
		Duration:  1500 * time.Millisecond,
		CreatedAt: base,
	}
	mustRecord(t, store, first)
	if first.ID == "" {
		t.Fatal("Record did not assign an ID")
	}

	second := &Entry{
		Flow:      "new-file",
		Status:    StatusFailed,
		Error:     "chat completion: connection refused",
		CreatedAt: base.Add(time.Minute),
	}
	mustRecord(t, store, second)

	entries := mustList(t, store, ListOptions{})
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	newest := entries[0]
	if newest.ID != second.ID {
		t.Errorf("entries[0].ID = %q, want newest %q", newest.ID, second.ID)
	}
	if newest.Status != StatusFailed || newest.Error != second.Error {
		t.Errorf("newest = %s %q, want failed %q", newest.Status, newest.Error, second.Error)
	}
	if newest.Prompt != "" {
		t.Errorf("newest.Prompt = %q, want empty", newest.Prompt)
	}

	got := entries[1]
	if got.ID != first.ID || got.Flow != "insert" || got.Kind != "python" {
		t.Errorf("oldest = %+v, want %+v", got, *first)
	}
	if got.Prompt != first.Prompt {
		t.Errorf("Prompt = %q, want %q", got.Prompt, first.Prompt)
	}
	if got.CodeBytes != 25 {
		t.Errorf("CodeBytes = %d, want 25", got.CodeBytes)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got.Duration)
	}
	if !base.Equal(got.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base)
	}
}

func TestSQLiteStoreListFilters(t *testing.T) {
	store := newTestStore(t, 0)

	mustRecord(t, store, &Entry{Flow: "insert", Status: StatusCompleted})
	mustRecord(t, store, &Entry{Flow: "insert", Status: StatusCancelled})
	mustRecord(t, store, &Entry{Flow: "ask", Status: StatusCompleted})

	tests := []struct {
		name string
		opts ListOptions
		want int
	}{
		{"by flow", ListOptions{Flow: "insert"}, 2},
		{"by status", ListOptions{Status: StatusCompleted}, 2},
		{"flow and status", ListOptions{Flow: "insert", Status: StatusCancelled}, 1},
		{"limit", ListOptions{Limit: 1}, 1},
	}
	for _, tt := range tests {
		if got := mustList(t, store, tt.opts); len(got) != tt.want {
			t.Errorf("%s: got %d entries, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestSQLiteStoreRejectsUnknownStatus(t *testing.T) {
	store := newTestStore(t, 0)
	if err := store.Record(context.Background(), &Entry{Flow: "insert", Status: "weird"}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSQLiteStoreReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(Config{Enabled: true, Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	mustRecord(t, store, &Entry{Flow: "setup", Status: StatusCompleted})
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = NewSQLiteStore(Config{Enabled: true, Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	if got := mustList(t, store, ListOptions{}); len(got) != 1 {
		t.Errorf("got %d entries after reopen, want 1", len(got))
	}
}

func TestSQLiteStoreMaxCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	store, err := NewSQLiteStore(Config{Enabled: true, Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	for i := 0; i < 5; i++ {
		mustRecord(t, store, &Entry{
			Flow:      "insert",
			Status:    StatusCompleted,
			CodeBytes: i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = NewSQLiteStore(Config{Enabled: true, Path: path, MaxCount: 2})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	entries := mustList(t, store, ListOptions{})
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 after pruning", len(entries))
	}
	if entries[0].CodeBytes != 4 || entries[1].CodeBytes != 3 {
		t.Errorf("kept CodeBytes %d, %d; want the newest 4, 3", entries[0].CodeBytes, entries[1].CodeBytes)
	}
}

func TestNewStoreDisabled(t *testing.T) {
	store, err := NewStore(Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := store.(*NoopStore); !ok {
		t.Fatalf("NewStore returned %T, want *NoopStore", store)
	}

	e := &Entry{Flow: "insert", Status: StatusCompleted}
	mustRecord(t, store, e)
	if e.ID == "" {
		t.Error("NoopStore.Record did not assign an ID")
	}
	if got := mustList(t, store, ListOptions{}); len(got) != 0 {
		t.Errorf("NoopStore listed %d entries", len(got))
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestGetDBPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	want := filepath.Join("/tmp/data", "term-copilot", "history.db")
	if got := GetDBPath(); got != want {
		t.Errorf("GetDBPath() = %q, want %q", got, want)
	}
}
