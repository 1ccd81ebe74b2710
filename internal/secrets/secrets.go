// Package secrets persists credentials in a YAML file readable only by the
// current user.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samsaffron/term-copilot/internal/config"
	"gopkg.in/yaml.v3"
)

// FileStore keeps secrets as a flat key/value YAML document. The file is
// re-read on every lookup.
type FileStore struct {
	path string
	// Env maps a secret key to an environment variable consulted when the
	// file has no value for it.
	Env map[string]string

	mu sync.Mutex
}

// DefaultPath is secrets.yaml inside the config directory.
func DefaultPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "secrets.yaml"), nil
}

// NewFileStore returns a store backed by path, or DefaultPath when path is
// empty. The file is created on the first SetSecret.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get secrets path: %w", err)
		}
		path = p
	}
	return &FileStore{path: path, Env: map[string]string{}}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

// Secret returns the value stored under key. ok is false when neither the
// file nor the mapped environment variable has a non-empty value.
func (s *FileStore) Secret(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	values, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return "", false, fmt.Errorf("read secrets: %w", err)
	}
	if v := strings.TrimSpace(values[key]); v != "" {
		return v, true, nil
	}
	if env, ok := s.Env[key]; ok {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, true, nil
		}
	}
	return "", false, nil
}

// SetSecret stores value under key, replacing the file atomically.
func (s *FileStore) SetSecret(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return fmt.Errorf("read secrets: %w", err)
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create secrets directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".secrets-*.yaml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
