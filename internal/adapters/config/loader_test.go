package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/zyphar/internal/adapters/config"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "zyphar.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Cache.Dir)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, int64(500<<20), cfg.Cache.MaxSizeBytes)
	assert.Equal(t, 30*24*time.Hour, cfg.Cache.MaxAge)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Poll)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_PartialFileOverridesOnlyNamedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zyphar.yaml")
	content := `
cache:
  dir: /var/cache/zyphar
  max_entries: 50
watch:
  poll_ms: 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/zyphar", cfg.Cache.Dir)
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
	assert.Equal(t, int64(500<<20), cfg.Cache.MaxSizeBytes, "unnamed keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Poll)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_ZeroMaxAgeDisablesAgeEviction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zyphar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  max_age_days: 0\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Cache.MaxAge)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zyphar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache: [not a map"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
