package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 9000
metrics_port = 9001
log_level = "trace"
log_to_stdout = true
oura_base_url = "https://api.ouraring.com/v2/usercollection"
page_cache_megabytes = 5
start_date = "2025-10-28"
end_date = "2026-02-12"
snapshot_path = "data/daily.json"

[production]
host = ""
port = 9000
metrics_port = 9001
log_level = "debug"
logs_path = "/var/log/oura-arc"
sentry_enabled = true
oura_base_url = "https://api.ouraring.com/v2/usercollection"
page_cache_megabytes = 5
start_date = "2025-10-28"
end_date = "2026-02-12"
snapshot_path = "/var/lib/oura-arc/daily.json"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("development", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "2025-10-28", cfg.StartDate)
	assert.Equal(t, "2026-02-12", cfg.EndDate)
	assert.Equal(t, "data/daily.json", cfg.SnapshotPath)
	assert.False(t, cfg.SentryEnabled)

	cfg, err = Load("prod", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, "/var/lib/oura-arc/daily.json", cfg.SnapshotPath)
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("staging", path)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "unknown env")
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("development", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Nil(t, cfg)
	assert.Error(t, err)
}
