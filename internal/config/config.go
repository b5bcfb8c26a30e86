package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is runtime configuration for the CLI: which persistence mode the
// session runs in and where each tier lives.
type Config struct {
	// Mode is "guest" or "authenticated".
	Mode string `yaml:"mode" json:"mode"`
	// DBPath is the SQLite path for authenticated sessions.
	DBPath string `yaml:"db_path" json:"db_path"`
	// CacheDir is the badger directory for guest sessions.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
	// LogLevel is debug|info|warn|error.
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogFormat is text|json.
	LogFormat string `yaml:"log_format" json:"log_format"`
}

// Default returns the zero-config behavior: guest mode against dotfiles in
// the home directory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Mode:      "guest",
		DBPath:    filepath.Join(home, ".emberline.db"),
		CacheDir:  filepath.Join(home, ".emberline-cache"),
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads a yaml config file over the defaults. A missing file is not
// an error; env overrides apply last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return FromEnv(cfg), nil
}

// FromEnv layers environment overrides onto cfg.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("EMBERLINE_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("EMBERLINE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("EMBERLINE_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("EMBERLINE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EMBERLINE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return cfg
}

// DefaultPath is the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".emberline.yaml")
}
