package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultIdentifier, cfg.App.Identifier)
	assert.Equal(t, DefaultRetentionDays, cfg.Logs.RetentionDays)
	assert.Equal(t, "json", cfg.App.LogFormat)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "app:\n  identifier: com.ideaplexa.voicetypr.dev\nlogs:\n  retention_days: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "com.ideaplexa.voicetypr.dev", cfg.App.Identifier)
	assert.Equal(t, 7, cfg.Logs.RetentionDays)
	assert.Equal(t, "INFO", cfg.App.LogLevel)
	assert.NotEmpty(t, cfg.API.Listen)
}

func TestLoadRejectsNegativeRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("logs:\n  retention_days: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Paths.DataDir = "/custom/data"
	require.NoError(t, SaveYAML(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/custom/data", got.Paths.DataDir)
}

func TestDiscoverConfigPathEnvOverride(t *testing.T) {
	t.Setenv("VOICETYPRD_CONFIG", "/tmp/custom.yaml")

	path, err := DiscoverConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)
}
