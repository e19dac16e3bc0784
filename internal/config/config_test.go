package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "standard", cfg.Detail)
	assert.Equal(t, 999, cfg.MaxDepth)
	assert.Equal(t, 40000, cfg.MaxOutputChars)
	assert.Equal(t, ":9800", cfg.Listen)
	assert.Empty(t, cfg.BrowserURL)
}

func TestParseKDLConfig(t *testing.T) {
	cfg, err := ParseKDLConfig(`
version "1.1"

settings {
    detail "minimal"
    max-depth 50
    max-output-chars 8000
}

remote {
    listen "0.0.0.0:9801"
}

browser {
    url "http://127.0.0.1:9222"
}
`)
	require.NoError(t, err)
	assert.Equal(t, "1.1", cfg.Version)
	assert.Equal(t, "minimal", cfg.Detail)
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, 8000, cfg.MaxOutputChars)
	assert.Equal(t, "0.0.0.0:9801", cfg.Listen)
	assert.Equal(t, "http://127.0.0.1:9222", cfg.BrowserURL)
}

func TestParseKDLConfigPartialKeepsDefaults(t *testing.T) {
	cfg, err := ParseKDLConfig(`
settings {
    detail "full"
}
`)
	require.NoError(t, err)
	assert.Equal(t, "full", cfg.Detail)
	assert.Equal(t, 999, cfg.MaxDepth)
	assert.Equal(t, ":9800", cfg.Listen)
}

func TestParseKDLConfigInvalid(t *testing.T) {
	_, err := ParseKDLConfig(`settings { detail `)
	assert.Error(t, err)
}

func TestLoadProjectOverlay(t *testing.T) {
	dir := t.TempDir()
	// Point the global lookup somewhere empty.
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	project := `
settings {
    max-depth 25
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(project), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxDepth)
	assert.Equal(t, "standard", cfg.Detail)
}

func TestLoadWithoutProjectConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cup", GlobalConfigFile)
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "standard", cfg.Detail)
	assert.Equal(t, ":9800", cfg.Listen)
}
