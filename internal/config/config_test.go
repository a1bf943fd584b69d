package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

database:
  url: "postgres://localhost/outreach?sslmode=disable"
  max_open_conns: 10

redis:
  addr: "localhost:16379"
  enabled: true
  ttl_seconds: 120

polling:
  interval_seconds: 120
  analysis_window_days: 14

scoring:
  min_sends: 150
  benchmark_reply_rate: 3.0

functions:
  base_url: "https://functions.example.com"
  api_key: "test-key"
  timeout_seconds: 45
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "postgres://localhost/outreach?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns) // default

	assert.Equal(t, "localhost:16379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 120, cfg.Redis.TTLSeconds)

	assert.Equal(t, 120, cfg.Polling.IntervalSeconds)
	assert.Equal(t, 14, cfg.Polling.AnalysisWindowDays)

	assert.Equal(t, 150, cfg.Scoring.MinSends)
	assert.Equal(t, 3.0, cfg.Scoring.BenchmarkReplyRate)

	assert.Equal(t, "https://functions.example.com", cfg.Functions.BaseURL)
	assert.Equal(t, "test-key", cfg.Functions.APIKey)
	assert.Equal(t, 45, cfg.Functions.TimeoutSeconds)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 0\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 300, cfg.Redis.TTLSeconds)
	assert.Equal(t, 60, cfg.Polling.IntervalSeconds)
	assert.Equal(t, 30, cfg.Polling.AnalysisWindowDays)
	assert.Equal(t, 3, cfg.Functions.MaxRetries)
	assert.Equal(t, "OUTREACH_DATA_LAKE", cfg.Warehouse.Database)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 8080\n"), 0644))

	t.Setenv("DATABASE_URL", "postgres://prod-host/outreach")
	t.Setenv("REDIS_ADDR", "prod-redis:6379")
	t.Setenv("FUNCTIONS_API_KEY", "env-key")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://prod-host/outreach", cfg.Database.URL)
	assert.Equal(t, "prod-redis:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "env-key", cfg.Functions.APIKey)
}
