package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":5002", cfg.HTTP.Address)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/db/flights.sqlite3", cfg.Database.DSN())
	assert.Equal(t, 20, cfg.Query.DelayThresholdMinutes)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")

	path := writeConfig(t, `
http:
  address: ":8080"
database:
  driver: postgres
  host: db
  port: 5433
  user: flights
  password: "p@ss"
  name: flightdata
  ssl_mode: require
query:
  delay_threshold_minutes: 15
kafka:
  brokers: ["kafka:9092"]
redis:
  addr: "redis:6379"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "postgres://flights:p%40ss@db:5433/flightdata?sslmode=require", cfg.Database.DSN())
	assert.Equal(t, 15, cfg.Query.DelayThresholdMinutes)
	assert.Equal(t, 5, cfg.Query.BreakerFailures)
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "postgres://u:p@localhost:5432/flights")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/flights", cfg.Database.DSN())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "database:\n  driver: mysql\n"},
		{name: "zero threshold", body: "query:\n  delay_threshold_minutes: 0\n"},
		{name: "bad log format", body: "log:\n  format: xml\n"},
		{name: "malformed yaml", body: "http: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
