package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatabaseURL = "postgres://analyst@localhost:5432/covidPolitics?sslmode=disable"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", testDatabaseURL)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, "11", cfg.SnapshotDate)
	assert.Equal(t, ":8050", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultGeoJSONSource, cfg.GeoJSONSource)
	assert.Equal(t, 30*time.Second, cfg.GeoJSONTimeout)
	assert.Empty(t, cfg.MapboxToken)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "county-snapshots", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:///var/lib/covid.db")
	t.Setenv("SNAPSHOT_DATE", "22")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("GEOJSON_SOURCE", "/data/counties.json")
	t.Setenv("GEOJSON_TIMEOUT", "5s")
	t.Setenv("MAPBOX_TOKEN", "pk.test-token")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///var/lib/covid.db", cfg.DatabaseURL)
	assert.Equal(t, "22", cfg.SnapshotDate)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/counties.json", cfg.GeoJSONSource)
	assert.Equal(t, 5*time.Second, cfg.GeoJSONTimeout)
	assert.Equal(t, "pk.test-token", cfg.MapboxToken)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", testDatabaseURL)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidGeoJSONTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", testDatabaseURL)
	t.Setenv("GEOJSON_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOJSON_TIMEOUT")
}

func TestLoad_KafkaEnabledWithoutTopic(t *testing.T) {
	t.Setenv("DATABASE_URL", testDatabaseURL)
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_TOPIC", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_TOPIC")
}

func TestLoad_EmptyTopicAllowedWhenKafkaDisabled(t *testing.T) {
	t.Setenv("DATABASE_URL", testDatabaseURL)
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("KAFKA_TOPIC", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaTopic)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "covidmap.env")
	require.NoError(t, os.WriteFile(path, []byte("SNAPSHOT_DATE=12\nHTTP_ADDR=:7000\n"), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("DATABASE_URL", testDatabaseURL)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Cleanup(func() { _ = os.Unsetenv("SNAPSHOT_DATE") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "12", cfg.SnapshotDate)
	assert.Equal(t, ":9999", cfg.HTTPAddr, "real environment wins over the env file")
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("DATABASE_URL", testDatabaseURL)

	_, err := Load()
	require.NoError(t, err)
}
