package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "term-copilot"

// Keys understood by the copilot. Nested keys use dots.
const (
	KeyModel          = "model"
	KeyMaxTokens      = "max_tokens"
	KeyTemperature    = "temperature"
	KeyBaseURL        = "base_url"
	KeyHistoryEnabled = "history.enabled"
	KeyEditor         = "editor"
	KeyOutputDir      = "output_dir"
)

var defaults = map[string]any{
	KeyModel:          "gpt-4o-mini",
	KeyMaxTokens:      1024,
	KeyTemperature:    0.2,
	KeyBaseURL:        "",
	KeyHistoryEnabled: true,
	KeyEditor:         "",
	KeyOutputDir:      ".",
}

// ErrUnknownKey is returned by Set for keys outside Keys().
var ErrUnknownKey = errors.New("unknown config key")

type Config struct {
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	BaseURL     string        `mapstructure:"base_url"`   // empty means the SDK default
	Editor      string        `mapstructure:"editor"`     // overrides $EDITOR
	OutputDir   string        `mapstructure:"output_dir"` // where new documents are written
	History     HistoryConfig `mapstructure:"history"`
}

// HistoryConfig controls the local run log
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Keys lists every known key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Source reads configuration from a YAML file and TERM_COPILOT_* environment
// variables. Every lookup re-reads the file, so edits made while the process
// runs are picked up by the next call.
type Source struct {
	path string
}

// NewSource returns a Source backed by path. An empty path uses
// GetConfigPath.
func NewSource(path string) (*Source, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}
	return &Source{path: path}, nil
}

// Path returns the backing file.
func (s *Source) Path() string { return s.path }

func (s *Source) viper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("TERM_COPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file is fine; defaults and env still apply.
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return v, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	return v, nil
}

// Value returns the current value for key, or nil if it is unknown and unset.
// A malformed file is ignored in favour of defaults and env.
func (s *Source) Value(key string) any {
	v, _ := s.viper()
	val := v.Get(key)
	if str, ok := val.(string); ok {
		return expandEnv(str)
	}
	return val
}

// Load reads the whole configuration.
func (s *Source) Load() (*Config, error) {
	v, err := s.viper()
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.BaseURL = expandEnv(cfg.BaseURL)
	cfg.Editor = expandEnv(cfg.Editor)
	cfg.OutputDir = expandEnv(cfg.OutputDir)
	return &cfg, nil
}

// Set writes key=value to the config file, keeping the other entries.
// The value is parsed as a YAML scalar so "2048" is stored as a number.
func (s *Source) Set(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	doc := map[string]any{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", s.path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	var scalar any
	if err := yaml.Unmarshal([]byte(value), &scalar); err != nil || scalar == nil {
		scalar = value
	}
	setNested(doc, strings.Split(key, "."), scalar)

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(s.path, out, 0600)
}

func setNested(doc map[string]any, parts []string, value any) {
	if len(parts) == 1 {
		doc[parts[0]] = value
		return
	}
	child, ok := doc[parts[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		doc[parts[0]] = child
	}
	setNested(child, parts[1:], value)
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigDir returns the XDG config directory for term-copilot.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetDataDir returns the XDG data directory for term-copilot.
// Uses $XDG_DATA_HOME if set, otherwise ~/.local/share
func GetDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, appName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appName+"-data") // fallback
	}
	return filepath.Join(homeDir, ".local", "share", appName)
}
