package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSampleConfig(t *testing.T) {
	for _, format := range []string{"yaml", "json", "toml"} {
		t.Run(format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested")

			path, err := WriteSampleConfig(dir, format, false)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "pagesprune."+format), path)

			loaded, _, err := LoadRunConfig(path)
			require.NoError(t, err)
			loaded.Normalize()
			require.NoError(t, loaded.Validate())
			assert.Equal(t, "preview", loaded.Environment)
			assert.Equal(t, 5, *loaded.Count)
			assert.Equal(t, 7, *loaded.Days)
			assert.True(t, loaded.DryRun)
			assert.Equal(t, 30*time.Second, loaded.Timeout)
		})
	}
}

func TestWriteSampleConfig_Existing(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "pagesprune.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("environment: production\n"), 0o644))

	_, err := WriteSampleConfig(dir, "yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = WriteSampleConfig(dir, "yaml", true)
	require.NoError(t, err)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "environment: preview")
}

func TestWriteSampleConfig_UnsupportedFormat(t *testing.T) {
	_, err := WriteSampleConfig(t.TempDir(), "ini", false)
	assert.Error(t, err)
}
