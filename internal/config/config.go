package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/gerunddev/parsercache/internal/builtin"
	"github.com/gerunddev/parsercache/internal/logger"
)

// Config represents the parsercache configuration
type Config struct {
	LogFile         string              `json:"log_file"`
	LogLevel        string              `json:"log_level,omitempty"`
	Stacks          map[string][]string `json:"stacks,omitempty"`
	ExcludePatterns []string            `json:"exclude_patterns,omitempty"`
	Debounce        time.Duration       `json:"-"` // Custom JSON handling below
	MetricsAddr     string              `json:"metrics_addr,omitempty"`
	RenderWidth     int                 `json:"render_width,omitempty"`
}

// rawConfig is the on-disk form, with durations as strings
type rawConfig struct {
	LogFile         string              `json:"log_file"`
	LogLevel        string              `json:"log_level,omitempty"`
	Stacks          map[string][]string `json:"stacks,omitempty"`
	ExcludePatterns []string            `json:"exclude_patterns,omitempty"`
	Debounce        string              `json:"debounce,omitempty"`
	MetricsAddr     string              `json:"metrics_addr,omitempty"`
	RenderWidth     int                 `json:"render_width,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogFile:  filepath.Join(os.TempDir(), "parsercache.log"),
		LogLevel: "info",
		Stacks: map[string][]string{
			"md":       {"matter"},
			"markdown": {"matter"},
		},
		ExcludePatterns: []string{},
		Debounce:        200 * time.Millisecond,
		RenderWidth:     120,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.ConfigHome, "parsercache", "config.json")
	}
	return filepath.Join(home, ".config", "parsercache", "config.json")
}

// CacheFilePath returns the path to the parse cache
// Uses platform-specific XDG data directory
// Can be overridden for testing
var CacheFilePath = func() string {
	return filepath.Join(xdg.DataHome, "parsercache", "cache.json")
}

// Load reads configuration from the config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	defaults := DefaultConfig()
	raw := rawConfig{
		LogFile:     defaults.LogFile,
		LogLevel:    defaults.LogLevel,
		Debounce:    defaults.Debounce.String(),
		RenderWidth: defaults.RenderWidth,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	debounce, err := time.ParseDuration(raw.Debounce)
	if err != nil {
		return nil, fmt.Errorf("invalid debounce format '%s': %w", raw.Debounce, err)
	}

	// A config without stacks keeps the default ones
	stacks := raw.Stacks
	if stacks == nil {
		stacks = defaults.Stacks
	}

	excludePatterns := raw.ExcludePatterns
	if excludePatterns == nil {
		excludePatterns = []string{}
	}

	cfg := &Config{
		LogFile:         raw.LogFile,
		LogLevel:        raw.LogLevel,
		Stacks:          stacks,
		ExcludePatterns: excludePatterns,
		Debounce:        debounce,
		MetricsAddr:     raw.MetricsAddr,
		RenderWidth:     raw.RenderWidth,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := rawConfig{
		LogFile:         c.LogFile,
		LogLevel:        c.LogLevel,
		Stacks:          c.Stacks,
		ExcludePatterns: c.ExcludePatterns,
		Debounce:        c.Debounce.String(),
		MetricsAddr:     c.MetricsAddr,
		RenderWidth:     c.RenderWidth,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce cannot be negative")
	}
	if c.RenderWidth < 0 {
		return fmt.Errorf("render_width cannot be negative")
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	for ext, names := range c.Stacks {
		if ext == "" {
			return fmt.Errorf("stacks cannot have an empty extension")
		}
		if _, err := builtin.Stack(names); err != nil {
			return fmt.Errorf("invalid stack for '%s': %w", ext, err)
		}
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
