package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, os.TempDir(), config.OutputDir)
	assert.False(t, config.Codec.StrictHeaders)
	assert.Equal(t, "info", config.Logging.Level)
	assert.False(t, config.Debug())
	assert.NoError(t, config.Validate())
}

func TestSaveAndLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := &Config{
		OutputDir: "/srv/bitmaps",
		Codec:     Codec{StrictHeaders: true},
		Logging:   Logging{Level: "debug"},
	}

	require.NoError(t, SaveConfig(original, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
	assert.True(t, loaded.Debug())
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("codec:\n  strict_headers: true\n"), 0600))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.True(t, config.Codec.StrictHeaders)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, os.TempDir(), config.OutputDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("codec: [unclosed"), 0600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("invalid level", func(t *testing.T) {
		path := filepath.Join(dir, "level.yaml")
		data, err := yaml.Marshal(map[string]any{"logging": map[string]string{"level": "loud"}})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0600))
		_, err = LoadConfig(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "DEBUG")

	config := DefaultConfig()
	config.ApplyEnv()
	assert.Equal(t, "debug", config.Logging.Level)
	assert.True(t, config.Debug())
}

func TestValidate_EmptyOutputDir(t *testing.T) {
	config := DefaultConfig()
	config.OutputDir = ""
	assert.Error(t, config.Validate())
}
