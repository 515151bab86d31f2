package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const (
	// EnvFile names the environment variable that overrides the config path.
	EnvFile = "SMALLSH_CONFIG"

	defaultFileName    = ".smallsh.yml"
	defaultHistoryName = ".smallsh_history"
)

type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	HistorySize int    `yaml:"history_size"`
	HomeDir     string `yaml:"home_dir"`
	MaxJobs     int    `yaml:"max_jobs"`
	LogFile     string `yaml:"log_file"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:      ": ",
		HistorySize: 1000,
		MaxJobs:     100,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Path resolves the config file location: $SMALLSH_CONFIG, else
// ~/.smallsh.yml. Without either it returns "" and defaults apply.
func Path() string {
	if p := os.Getenv(EnvFile); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultFileName)
}

// Load reads file on top of Default. An empty name or a missing file is
// not an error. Without a home directory HomeDir stays empty and history
// is kept in memory only.
func Load(file string) (*Config, error) {
	cfg := Default()
	if file != "" {
		data, err := os.ReadFile(file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", file, err)
			}
		}
	}

	if cfg.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.HomeDir = home
		}
	}

	if cfg.HistoryFile == "" && cfg.HomeDir != "" {
		cfg.HistoryFile = filepath.Join(cfg.HomeDir, defaultHistoryName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxJobs < 1 {
		return fmt.Errorf("max_jobs must be at least 1, got %d", c.MaxJobs)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative, got %d", c.HistorySize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}
