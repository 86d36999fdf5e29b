// Package config loads postlist settings from a YAML file with POSTLIST_*
// environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/nikbrunner/postlist/internal/search"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "POSTLIST_"

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "~/.config/postlist/config.yml"

// Config is the postlist configuration.
type Config struct {
	// Entry sources, tried in this order: list_file, site_url, index_path.
	SiteURL   string `yaml:"site_url" koanf:"site_url"`
	IndexPath string `yaml:"index_path" koanf:"index_path"`
	ListFile  string `yaml:"list_file" koanf:"list_file"`

	PageSize        int     `yaml:"page_size" koanf:"page_size"`
	SearchMode      string  `yaml:"search_mode" koanf:"search_mode"`
	SearchThreshold float64 `yaml:"search_threshold" koanf:"search_threshold"`
	SearchLimit     int     `yaml:"search_limit" koanf:"search_limit"`

	ThemeStore string `yaml:"theme_store" koanf:"theme_store"`
	ThemePath  string `yaml:"theme_path" koanf:"theme_path"`

	ContentDir string   `yaml:"content_dir" koanf:"content_dir"`
	Include    []string `yaml:"include" koanf:"include"`
	Output     string   `yaml:"output" koanf:"output"`

	ServeAddr string `yaml:"serve_addr" koanf:"serve_addr"`
	ServeDir  string `yaml:"serve_dir" koanf:"serve_dir"`

	LogLevel string `yaml:"log_level" koanf:"log_level"`
	LogFile  string `yaml:"log_file" koanf:"log_file"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		IndexPath:       "public/search.json",
		PageSize:        5,
		SearchMode:      "substring",
		SearchThreshold: search.DefaultThreshold,
		SearchLimit:     search.DefaultLimit,
		ThemeStore:      "file",
		ContentDir:      ".",
		Include:         []string{"posts/**/*.md"},
		Output:          "public/search.json",
		ServeAddr:       "127.0.0.1:4000",
		ServeDir:        "public",
		LogLevel:        "info",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		resolved, err := expandHome(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(resolved); err == nil {
			if err := k.Load(file.Provider(resolved), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", resolved, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", resolved, err)
		}
	}

	// POSTLIST_PAGE_SIZE -> page_size, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	resolved, err := expandHome(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(resolved, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", resolved, err)
	}
	return nil
}

// YAML returns the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

var validThemeStores = map[string]bool{
	"file":   true,
	"sqlite": true,
	"none":   true,
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if _, err := search.ParseMode(c.SearchMode); err != nil {
		return fmt.Errorf("invalid search_mode: %w", err)
	}
	if c.SearchThreshold < 0 || c.SearchThreshold > 1 {
		return fmt.Errorf("search_threshold must be between 0 and 1, got %g", c.SearchThreshold)
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive, got %d", c.SearchLimit)
	}
	if !validThemeStores[c.ThemeStore] {
		return fmt.Errorf("invalid theme_store %q: must be one of file, sqlite, none", c.ThemeStore)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include must list at least one pattern")
	}
	return nil
}

// Mode returns the parsed search mode. Call Validate first.
func (c *Config) Mode() search.Mode {
	mode, _ := search.ParseMode(c.SearchMode)
	return mode
}

// FuzzyOptions returns the fuzzy search tuning.
func (c *Config) FuzzyOptions() search.FuzzyOptions {
	return search.FuzzyOptions{
		Threshold: c.SearchThreshold,
		Limit:     c.SearchLimit,
	}
}

// Level returns the slog level for log_level, defaulting to info.
func (c *Config) Level() slog.Level {
	if level, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return level
	}
	return slog.LevelInfo
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
