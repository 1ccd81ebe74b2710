package cache

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestModelCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if _, err := ReadModelCache(""); !os.IsNotExist(err) {
		t.Fatalf("ReadModelCache on empty cache: err = %v, want not-exist", err)
	}

	if err := WriteModelCache("", []string{"gpt-4o", "gpt-4o-mini"}); err != nil {
		t.Fatalf("WriteModelCache: %v", err)
	}
	c, err := ReadModelCache("")
	if err != nil {
		t.Fatalf("ReadModelCache: %v", err)
	}
	if want := []string{"gpt-4o", "gpt-4o-mini"}; !slices.Equal(c.Models, want) {
		t.Errorf("Models = %v, want %v", c.Models, want)
	}
	if !IsCacheValid(c) {
		t.Error("fresh cache reported stale")
	}
}

func TestModelCacheIsPerEndpoint(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	const local = "http://localhost:11434/v1/"
	if err := WriteModelCache("", []string{"gpt-4o"}); err != nil {
		t.Fatalf("WriteModelCache default: %v", err)
	}
	if err := WriteModelCache(local, []string{"llama3"}); err != nil {
		t.Fatalf("WriteModelCache local: %v", err)
	}

	c, err := ReadModelCache(local)
	if err != nil {
		t.Fatalf("ReadModelCache: %v", err)
	}
	if !slices.Equal(c.Models, []string{"llama3"}) {
		t.Errorf("Models = %v, want [llama3]", c.Models)
	}
	if c.Endpoint != local {
		t.Errorf("Endpoint = %q, want %q", c.Endpoint, local)
	}

	entries, err := os.ReadDir(filepath.Join(home, "term-copilot"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("cache dir has %d entries, want 2 (temp files left behind?)", len(entries))
	}
}

func TestIsCacheValid(t *testing.T) {
	tests := []struct {
		name  string
		cache *ModelCache
		want  bool
	}{
		{"nil", nil, false},
		{"expired", &ModelCache{FetchedAt: time.Now().Add(-ModelCacheTTL - time.Minute)}, false},
		{"fresh", &ModelCache{FetchedAt: time.Now()}, true},
	}
	for _, tt := range tests {
		if got := IsCacheValid(tt.cache); got != tt.want {
			t.Errorf("%s: IsCacheValid = %v, want %v", tt.name, got, tt.want)
		}
	}
}
