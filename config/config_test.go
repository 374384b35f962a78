package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
http:
  address: ":8080"
database:
  host: "db"
  port: 5432
  user: "svc"
  password: "secret"
  name: "bookings"
  ssl_mode: "disable"
kafka:
  brokers: ["broker:9092"]
  booking_events_topic: "booking-events"
cache:
  ttl_seconds: 30
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "host=db port=5432 user=svc password=secret dbname=bookings sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, []string{"broker:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.Cache.TTLSeconds)
}

func TestLoadConfig_EnvOverridesPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  password: \"from-file\"\n"), 0o600))
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
