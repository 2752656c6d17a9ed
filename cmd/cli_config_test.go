package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(ClickHouseURLEnv, "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging)
	assert.Equal(t, "injuries", cfg.ClickHouse.Database)
	assert.Empty(t, cfg.ClickHouse.URL)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Setenv(ClickHouseURLEnv, "")

	path := writeFile(t, "config.yaml", `
logging: debug
metricsAddr: ":9191"
healthCheckAddr: ":9192"
clickhouse:
  url: http://clickhouse:8123
  database: football
  queryTimeout: 5s
queries:
  tables:
    injuries: injuries_2024
  previewLimit: 20
api:
  addr: ":3000"
`)

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging)
	assert.Equal(t, ":9191", cfg.Server.MetricsAddr)
	require.NotNil(t, cfg.Server.HealthCheckAddr)
	assert.Equal(t, ":9192", *cfg.Server.HealthCheckAddr)
	assert.Nil(t, cfg.Server.PProfAddr)
	assert.Equal(t, "http://clickhouse:8123", cfg.ClickHouse.URL)
	assert.Equal(t, "football", cfg.ClickHouse.Database)
	assert.Equal(t, 5*time.Second, cfg.ClickHouse.QueryTimeout)
	assert.Equal(t, "injuries_2024", cfg.Queries.Tables.Injuries)
	assert.Equal(t, "teams_serie_a", cfg.Queries.Tables.Teams)
	assert.Equal(t, 20, cfg.Queries.PreviewLimit)
	assert.Equal(t, ":3000", cfg.API.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(ClickHouseURLEnv, "http://override:8123")

	path := writeFile(t, "config.yaml", "clickhouse:\n  url: http://clickhouse:8123\n")

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, "http://override:8123", cfg.ClickHouse.URL)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// Registers cleanup that restores the variable after godotenv sets it
	t.Setenv(ClickHouseURLEnv, "")
	require.NoError(t, os.Unsetenv(ClickHouseURLEnv))

	envPath := writeFile(t, ".env", ClickHouseURLEnv+"=http://dotenv:8123\n")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), envPath)
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:8123", cfg.ClickHouse.URL)
}

func TestLoadConfig_MissingDotEnvIgnored(t *testing.T) {
	t.Setenv(ClickHouseURLEnv, "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "clickhouse: [unterminated")

	_, err := LoadConfig(path, "")
	require.Error(t, err)
}
