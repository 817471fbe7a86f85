// Package config loads the autoclick YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rate bounds, in clicks per second.
const (
	MinCPS = 1
	MaxCPS = 1000
)

// Config holds all application configuration.
type Config struct {
	Hotkey   HotkeyConfig  `yaml:"hotkey"`
	Clicker  ClickerConfig `yaml:"clicker"`
	Inject   InjectConfig  `yaml:"inject"`
	Watch    bool          `yaml:"watch"`
	LogLevel string        `yaml:"log_level"`
}

// HotkeyConfig holds the toggle key settings.
type HotkeyConfig struct {
	Key     string `yaml:"key"`
	Backend string `yaml:"backend"` // "auto", "gohook" or "winhook"
}

// ClickerConfig holds click generation settings.
type ClickerConfig struct {
	CPS       int  `yaml:"cps"`
	PinCursor bool `yaml:"pin_cursor"`
}

// InjectConfig holds click injection settings.
type InjectConfig struct {
	Method string `yaml:"method"` // "auto", "robotgo" or "sendinput"
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "autoclick")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Hotkey: HotkeyConfig{
			Key:     "scrolllock",
			Backend: "auto",
		},
		Clicker: ClickerConfig{
			CPS: 15,
		},
		Inject: InjectConfig{
			Method: "auto",
		},
		Watch:    true,
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Hotkey.Key = strings.TrimSpace(cfg.Hotkey.Key)

	return cfg, nil
}

// LoadOrDefault loads path, or returns Default if the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Hotkey.Key) == "" {
		return fmt.Errorf("hotkey.key must not be empty")
	}

	switch c.Hotkey.Backend {
	case "auto", "gohook", "winhook":
	default:
		return fmt.Errorf("hotkey.backend must be auto, gohook, or winhook, got %q", c.Hotkey.Backend)
	}

	if c.Clicker.CPS < MinCPS || c.Clicker.CPS > MaxCPS {
		return fmt.Errorf("clicker.cps must be between %d and %d, got %d", MinCPS, MaxCPS, c.Clicker.CPS)
	}

	switch c.Inject.Method {
	case "auto", "robotgo", "sendinput":
	default:
		return fmt.Errorf("inject.method must be auto, robotgo, or sendinput, got %q", c.Inject.Method)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ParseLogLevel maps a config log level to slog. Unknown values are Info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultHeader = `# autoclick configuration
#
# hotkey.key      toggle key: scrolllock, rctrl, pause, f1-f24, a letter,
#                 a digit, or a numeric key code (run "autoclick keys" to
#                 find one). "0"-"9" name the digit keys; write raw codes
#                 in hex, e.g. 0x91
# hotkey.backend  auto, gohook, or winhook (Windows only)
# clicker.cps     clicks per second, 1-1000
# inject.method   auto, robotgo, or sendinput (Windows only)
# watch           re-apply key, cps, and pin_cursor when this file changes

`

// WriteDefault writes the default config to DefaultConfigPath. It returns
// the path written, or "" if a config file already exists.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	body, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	data := append([]byte(defaultHeader), body...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}
