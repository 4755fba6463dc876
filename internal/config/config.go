package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kokistudios/simdb/internal/store"
)

// JournalConfig holds settings for the journal file.
type JournalConfig struct {
	Path            string `yaml:"path"`
	DefaultCategory string `yaml:"default_category"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config holds simdb configuration.
type Config struct {
	Version string        `yaml:"version"`
	Journal JournalConfig `yaml:"journal,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Version: "1",
		Journal: JournalConfig{
			Path:            store.DefaultFile,
			DefaultCategory: store.DefaultCategory,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Home holds a loaded SIMDB_HOME.
type Home struct {
	Dir    string
	Config Config
}

// Issue represents a health check finding.
type Issue struct {
	Severity string // "warning" or "error"
	Message  string
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Dir returns the SIMDB_HOME path, respecting the SIMDB_HOME env var.
func Dir() string {
	if h := os.Getenv("SIMDB_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".simdb")
	}
	return filepath.Join(home, ".simdb")
}

// Init creates SIMDB_HOME with a default config.yaml.
func Init(dir string, force bool) error {
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err == nil && !force {
		return fmt.Errorf("SIMDB_HOME already initialized at %s (use --force to reinitialize)", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	h := &Home{Dir: dir, Config: DefaultConfig()}
	return h.Save()
}

// Load reads SIMDB_HOME/config.yaml. A missing file yields the defaults;
// missing fields are filled from defaults.
func Load(dir string) (*Home, error) {
	cfg := DefaultConfig()
	cfgPath := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &Home{Dir: dir, Config: cfg}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config at %s: %w", cfgPath, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config.yaml: %w", err)
	}
	return &Home{Dir: dir, Config: cfg}, nil
}

// Save writes the current config to config.yaml.
func (h *Home) Save() error {
	data, err := yaml.Marshal(h.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(h.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", h.Dir, err)
	}
	if err := os.WriteFile(h.Path("config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SetValue sets a config value by dot-path key (e.g. "journal.path") and saves it.
func (h *Home) SetValue(key, value string) error {
	switch key {
	case "journal.path":
		if value == "" {
			return fmt.Errorf("journal.path must not be empty")
		}
		h.Config.Journal.Path = value
	case "journal.default_category":
		if value == "" {
			return fmt.Errorf("journal.default_category must not be empty")
		}
		h.Config.Journal.DefaultCategory = value
	case "log.level":
		if !validLevels[value] {
			return fmt.Errorf("log.level must be one of debug, info, warn, error")
		}
		h.Config.Log.Level = value
	default:
		return fmt.Errorf("unknown config key: %s\nValid keys: journal.path, journal.default_category, log.level", key)
	}
	return h.Save()
}

// Path resolves a path within SIMDB_HOME.
func (h *Home) Path(parts ...string) string {
	all := append([]string{h.Dir}, parts...)
	return filepath.Join(all...)
}

// JournalPath returns the configured journal file. Relative paths are
// resolved against the working directory, like the default sample.cv.
func (h *Home) JournalPath() string {
	if h.Config.Journal.Path == "" {
		return store.DefaultFile
	}
	return h.Config.Journal.Path
}

// CheckHealth verifies the config file and journal settings.
func CheckHealth(dir string) []Issue {
	var issues []Issue

	cfgPath := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		issues = append(issues, Issue{"warning", fmt.Sprintf("no config at %s, using defaults (run 'simdb init' to create one)", cfgPath)})
		return issues
	case err != nil:
		issues = append(issues, Issue{"error", fmt.Sprintf("cannot read config.yaml: %v", err)})
		return issues
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("config.yaml is not valid YAML: %v", err)})
		return issues
	}
	if cfg.Journal.Path == "" {
		issues = append(issues, Issue{"error", "journal.path is empty"})
	} else if info, err := os.Stat(filepath.Dir(cfg.Journal.Path)); err != nil {
		issues = append(issues, Issue{"warning", fmt.Sprintf("journal directory does not exist yet: %s", filepath.Dir(cfg.Journal.Path))})
	} else if !info.IsDir() {
		issues = append(issues, Issue{"error", fmt.Sprintf("expected directory but found file: %s", filepath.Dir(cfg.Journal.Path))})
	}
	if cfg.Log.Level != "" && !validLevels[cfg.Log.Level] {
		issues = append(issues, Issue{"warning", fmt.Sprintf("unknown log.level %q, falling back to info", cfg.Log.Level)})
	}

	return issues
}

// FixIssues attempts to repair simple issues in SIMDB_HOME.
func FixIssues(dir string) []string {
	var fixed []string

	cfgPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		h := &Home{Dir: dir, Config: DefaultConfig()}
		if h.Save() == nil {
			fixed = append(fixed, "created missing config.yaml with defaults")
		}
		return fixed
	}

	h, err := Load(dir)
	if err != nil {
		return fixed
	}
	if h.Config.Journal.Path != "" {
		jdir := filepath.Dir(h.Config.Journal.Path)
		if _, err := os.Stat(jdir); err != nil {
			if err := os.MkdirAll(jdir, 0755); err == nil {
				fixed = append(fixed, fmt.Sprintf("created missing journal directory: %s", jdir))
			}
		}
	}
	return fixed
}
