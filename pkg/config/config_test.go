package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "csv", cfg.Data.FileType)
	assert.Equal(t, 100_000, cfg.Data.ChunkSize)
	assert.Equal(t, "aep_mw", cfg.Pipeline.TargetColumn)
	assert.Equal(t, "US", cfg.Pipeline.HolidayRegion)
	assert.True(t, cfg.Pipeline.DropNA)
	assert.Equal(t, 10*time.Minute, cfg.API.CacheTTL)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
env: production
data:
  file_type: parquet
  lazy: true
pipeline:
  target_column: load_mw
  holiday_region: US
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "parquet", cfg.Data.FileType)
	assert.True(t, cfg.Data.Lazy)
	assert.Equal(t, "load_mw", cfg.Pipeline.TargetColumn)
	// Untouched sections keep their defaults.
	assert.Equal(t, "artifacts", cfg.Model.ArtifactDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`port: "9000"`), 0o644))

	t.Setenv("PORT", "7777")
	t.Setenv("DATA_LAZY", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Port)
	assert.True(t, cfg.Data.Lazy)
}

func TestLoad_MissingExplicitFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad env", "ENV", "sandbox"},
		{"bad file type", "DATA_FILE_TYPE", "hdf5"},
		{"bad holiday region", "PIPELINE_HOLIDAY_REGION", "KR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestDatabaseConfig_Enabled(t *testing.T) {
	assert.False(t, DatabaseConfig{}.Enabled())
	assert.True(t, DatabaseConfig{URL: "postgres://localhost/powercast"}.Enabled())
}
