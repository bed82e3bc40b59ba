package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/catalog-browser/internal/infrastructure/kafka"
)

// MinSecretLength is the shortest accepted SESSION_SECRET
const MinSecretLength = 32

var (
	ErrMissingSecret = errors.New("SESSION_SECRET environment variable is required")
	ErrShortSecret   = fmt.Errorf("SESSION_SECRET must be at least %d characters long", MinSecretLength)
)

// Config is the process configuration read from the environment
type Config struct {
	HTTPAddr      string
	SessionSecret string
	SessionTTL    time.Duration

	// DatabaseURL enables the Postgres event log and product table when set
	DatabaseURL   string
	ProductSource string // "fixture" or "postgres"

	// KafkaBrokers enables event publication when non-empty
	KafkaBrokers       []string
	KafkaTopic         string
	KafkaConsumerGroup string

	// RedisURL enables Redis snapshots when set
	RedisURL    string
	SnapshotTTL time.Duration
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	// a missing .env is fine; real environment variables win
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables
func FromEnv() (*Config, error) {
	sessionTTL, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	snapshotTTL, err := getDuration("SNAPSHOT_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionTTL:         sessionTTL,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ProductSource:      getEnv("PRODUCT_SOURCE", "fixture"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", kafka.DefaultTopic),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "catalog-projector"),
		RedisURL:           os.Getenv("REDIS_URL"),
		SnapshotTTL:        snapshotTTL,
	}

	switch cfg.ProductSource {
	case "fixture":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("PRODUCT_SOURCE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown PRODUCT_SOURCE %q", cfg.ProductSource)
	}

	return cfg, nil
}

// ValidateSessionSecret checks the token signing secret
func (c *Config) ValidateSessionSecret() error {
	if c.SessionSecret == "" {
		return ErrMissingSecret
	}
	if len(c.SessionSecret) < MinSecretLength {
		return ErrShortSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
