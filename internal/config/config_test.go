package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, 250*time.Millisecond, cfg.BatchDelay)
	assert.Equal(t, 60*time.Second, cfg.StatsEvery)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/srv/mediashelf")
	t.Setenv("BATCH_DELAY_MS", "100")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/srv/mediashelf", cfg.DataDir)
	assert.Equal(t, 100*time.Millisecond, cfg.BatchDelay)
}

func TestMergeFromFileOverlaysOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediashelf.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 7070
batch_delay_ms = 500
`), 0o644))

	cfg := Load()
	cfg.MergeFromFile(path)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchDelay)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestMergeFromFileMissingFileIsIgnored(t *testing.T) {
	cfg := Load()
	before := *cfg
	cfg.MergeFromFile("/does/not/exist.toml")
	assert.Equal(t, before, *cfg)
}

func TestConfigFileEnvTriggersMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediashelf.toml")
	require.NoError(t, os.WriteFile(path, []byte(`port = 6060`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	cfg := Load()
	assert.Equal(t, 6060, cfg.Port)
}
