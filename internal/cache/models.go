// Package cache keeps short-lived copies of remote lookups under
// $XDG_CACHE_HOME/term-copilot.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
)

const (
	ModelCacheTTL = 30 * time.Minute
	cacheDir      = "term-copilot"
	// DefaultEndpoint names the cache entry for the SDK's default base URL.
	DefaultEndpoint = "openai"
)

type ModelCache struct {
	Endpoint  string    `json:"endpoint"`
	Models    []string  `json:"models"`
	FetchedAt time.Time `json:"fetched_at"`
}

func getCacheDir() (string, error) {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, cacheDir), nil
}

// getCachePath maps an endpoint (a base URL, or "" for the default) to its
// cache file.
func getCachePath(endpoint string) (string, error) {
	dir, err := getCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, endpointKey(endpoint)+"-models.json"), nil
}

func endpointKey(endpoint string) string {
	if endpoint == "" {
		return DefaultEndpoint
	}
	return slug.Make(endpoint)
}

func ReadModelCache(endpoint string) (*ModelCache, error) {
	path, err := getCachePath(endpoint)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cache ModelCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}

	return &cache, nil
}

func WriteModelCache(endpoint string, models []string) error {
	dir, err := getCacheDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := getCachePath(endpoint)
	if err != nil {
		return err
	}

	data, err := json.Marshal(ModelCache{
		Endpoint:  endpoint,
		Models:    models,
		FetchedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, endpointKey(endpoint)+"-models-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	renamed = true
	return nil
}

func IsCacheValid(cache *ModelCache) bool {
	if cache == nil {
		return false
	}
	return time.Since(cache.FetchedAt) < ModelCacheTTL
}
