package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// DefaultGeoJSONSource is the plotly county boundary FeatureCollection keyed by FIPS.
const DefaultGeoJSONSource = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"

const defaultKafkaTopic = "county-snapshots"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatabaseURL     string
	SnapshotDate    string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// County boundary source: an http(s) URL or a local file path.
	GeoJSONSource  string
	GeoJSONTimeout time.Duration

	// Optional Mapbox token; without it the map uses a token-free base style.
	MapboxToken string

	// Snapshot export to Kafka.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where
// unset. Variables from ENV_FILE (default ".env") are loaded first when the
// file exists; they never override the real environment.
func Load() (*Config, error) {
	if err := loadEnvFile(sharedcfg.EnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geoTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("GEOJSON_TIMEOUT", "30s"))
	if err != nil || geoTimeout <= 0 {
		return nil, errors.New("invalid GEOJSON_TIMEOUT")
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SnapshotDate:    sharedcfg.EnvOrDefault("SNAPSHOT_DATE", "11"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8050"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeoJSONSource:  sharedcfg.EnvOrDefault("GEOJSON_SOURCE", DefaultGeoJSONSource),
		GeoJSONTimeout: geoTimeout,

		MapboxToken: os.Getenv("MAPBOX_TOKEN"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   kafkaTopic(),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.SnapshotDate) == "" {
		return nil, errors.New("SNAPSHOT_DATE must not be blank")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// kafkaTopic returns KAFKA_TOPIC, or the default when it is unset. A topic
// set to the empty string stays empty so that Load can reject it.
func kafkaTopic() string {
	if v, ok := os.LookupEnv("KAFKA_TOPIC"); ok {
		return strings.TrimSpace(v)
	}
	return defaultKafkaTopic
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
