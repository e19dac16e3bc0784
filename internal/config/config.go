// Package config loads cup settings from KDL files: a global config.kdl in
// the user config dir and an optional .cup.kdl overlay in the working
// directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
)

// KDL configuration file names.
const (
	GlobalConfigFile  = "config.kdl"
	ProjectConfigFile = ".cup.kdl"
)

// Config holds resolved settings with defaults applied.
type Config struct {
	Version string

	// Detail is the default pruning level for captures.
	Detail string
	// MaxDepth caps accessibility tree walks.
	MaxDepth int
	// MaxOutputChars caps compact text output.
	MaxOutputChars int
	// Listen is the remote server bind address.
	Listen string
	// BrowserURL is the Chromium remote debugging endpoint used by the
	// web adapter. Empty means resolve via rod's launcher.
	BrowserURL string
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Version:        "1.0",
		Detail:         "standard",
		MaxDepth:       999,
		MaxOutputChars: 40000,
		Listen:         ":9800",
	}
}

// KDLConfig mirrors the config file structure, using kdl struct tags.
type KDLConfig struct {
	Version  string      `kdl:"version"`
	Settings KDLSettings `kdl:"settings"`
	Remote   KDLRemote   `kdl:"remote"`
	Browser  KDLBrowser  `kdl:"browser"`
}

// KDLSettings holds capture defaults.
type KDLSettings struct {
	Detail         string `kdl:"detail"`
	MaxDepth       int    `kdl:"max-depth"`
	MaxOutputChars int    `kdl:"max-output-chars"`
}

// KDLRemote holds remote server settings.
type KDLRemote struct {
	Listen string `kdl:"listen"`
}

// KDLBrowser holds web adapter settings.
type KDLBrowser struct {
	URL string `kdl:"url"`
}

// Load resolves the effective configuration: defaults, overlaid by the
// global config file, overlaid by the project config in dir (if any).
func Load(dir string) (*Config, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	projectPath := filepath.Join(dir, ProjectConfigFile)
	if _, err := os.Stat(projectPath); os.IsNotExist(err) {
		return cfg, nil
	}
	data, err := os.ReadFile(projectPath)
	if err != nil {
		return nil, err
	}
	if err := mergeKDL(cfg, string(data)); err != nil {
		return nil, fmt.Errorf("parse %s: %w", projectPath, err)
	}
	return cfg, nil
}

// LoadGlobalConfig loads the global configuration, falling back to
// defaults when no file exists.
func LoadGlobalConfig() (*Config, error) {
	path := GlobalConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseKDLConfig(string(data))
}

// ParseKDLConfig parses KDL configuration data over the defaults.
func ParseKDLConfig(data string) (*Config, error) {
	cfg := DefaultConfig()
	if err := mergeKDL(cfg, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeKDL parses data and overlays any set values onto cfg.
func mergeKDL(cfg *Config, data string) error {
	var kdlCfg KDLConfig
	if err := kdl.Unmarshal([]byte(data), &kdlCfg); err != nil {
		return err
	}

	if kdlCfg.Version != "" {
		cfg.Version = kdlCfg.Version
	}
	if kdlCfg.Settings.Detail != "" {
		cfg.Detail = kdlCfg.Settings.Detail
	}
	if kdlCfg.Settings.MaxDepth > 0 {
		cfg.MaxDepth = kdlCfg.Settings.MaxDepth
	}
	if kdlCfg.Settings.MaxOutputChars > 0 {
		cfg.MaxOutputChars = kdlCfg.Settings.MaxOutputChars
	}
	if kdlCfg.Remote.Listen != "" {
		cfg.Listen = kdlCfg.Remote.Listen
	}
	if kdlCfg.Browser.URL != "" {
		cfg.BrowserURL = kdlCfg.Browser.URL
	}
	return nil
}

// GlobalConfigPath returns the path to the global config file, or "" when
// no user config dir can be determined.
func GlobalConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "cup", GlobalConfigFile)
}

// WriteDefaultConfig writes a documented default config file.
func WriteDefaultConfig(path string) error {
	defaultKDL := `// cup configuration

version "1.0"

settings {
    // Pruning level for captures: full, standard, or minimal
    detail "standard"
    // Maximum accessibility tree depth to walk
    max-depth 999
    // Hard cap on compact text output
    max-output-chars 40000
}

remote {
    // Bind address for "cup serve"
    listen ":9800"
}

browser {
    // Chromium remote debugging endpoint for web captures,
    // e.g. "http://127.0.0.1:9222". Empty = launch via rod.
    url ""
}
`
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(defaultKDL)+"\n"), 0644)
}
