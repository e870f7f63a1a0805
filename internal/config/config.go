// Package config loads hisoka's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/hisoka/internal/keymap"
	"github.com/llehouerou/hisoka/internal/pixel"
)

const appName = "hisoka"

// LogDisabled as log.file turns logging off.
const LogDisabled = "-"

type Config struct {
	Protocol string `koanf:"protocol"` // "auto", "iterm", "kitty", "sixel" or "none"

	Keys  KeysConfig  `koanf:"keys"`
	Log   LogConfig   `koanf:"log"`
	Scan  ScanConfig  `koanf:"scan"`
	Theme ThemeConfig `koanf:"theme"`
}

// KeysConfig replaces the default keys of an action. Each key is one
// printable ASCII character.
type KeysConfig struct {
	Quit []string `koanf:"quit"`
	Prev []string `koanf:"prev"`
	Next []string `koanf:"next"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // logrus level name (default: "info")
	File  string `koanf:"file"`  // empty = state dir, "-" = disabled
}

// ScanConfig controls how directory arguments are expanded.
type ScanConfig struct {
	Recursive    bool  `koanf:"recursive"`     // descend into subdirectories (default: false)
	IncludeAudio *bool `koanf:"include_audio"` // add embedded cover art of audio files (default: true)
}

// ThemeConfig holds hex colours for the window chrome.
type ThemeConfig struct {
	Border  string `koanf:"border"`
	Title   string `koanf:"title"`
	Message string `koanf:"message"` // default: "#ff5555"
}

// Load reads the config files in priority order. A non-empty explicit path
// is read last and must exist.
func Load(explicit string) (*Config, error) {
	return load(getConfigPaths(), explicit)
}

func load(paths []string, explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if explicit != "" {
		explicit = expandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: %w", explicit, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Protocol = strings.ToLower(strings.TrimSpace(cfg.Protocol))
	if cfg.Protocol != "" && cfg.Protocol != pixel.Auto {
		if _, err := pixel.Parse(cfg.Protocol); err != nil {
			return nil, fmt.Errorf("protocol: %w", err)
		}
	}

	// Expand ~ in log.file
	if cfg.Log.File != "" && cfg.Log.File != LogDisabled {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/hisoka/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./hisoka.toml (pwd, highest priority)
		appName + ".toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetProtocol returns the configured pixel protocol, "auto" when unset.
func (c *Config) GetProtocol() string {
	if c.Protocol == "" {
		return pixel.Auto
	}
	return c.Protocol
}

// GetBindings returns the key bindings with configured keys applied.
func (c *Config) GetBindings() []keymap.Binding {
	return keymap.WithOverrides(map[keymap.Action][]string{
		keymap.ActionQuit: c.Keys.Quit,
		keymap.ActionPrev: c.Keys.Prev,
		keymap.ActionNext: c.Keys.Next,
	})
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// GetScanConfig returns the scan configuration with defaults applied.
func (c *Config) GetScanConfig() ScanConfig {
	cfg := c.Scan
	if cfg.IncludeAudio == nil {
		includeAudio := true
		cfg.IncludeAudio = &includeAudio
	}
	return cfg
}

// GetThemeConfig returns the theme with defaults applied.
func (c *Config) GetThemeConfig() ThemeConfig {
	cfg := c.Theme
	if cfg.Message == "" {
		cfg.Message = "#ff5555"
	}
	return cfg
}
