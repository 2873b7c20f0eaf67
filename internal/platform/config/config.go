// Package config builds runtime configuration from the environment so main
// stays lean. A local .env file is honored in development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures process-level configuration.
type Config struct {
	Addr          string
	JWTSigningKey string

	DatabaseURL string
	Redis       RedisConfig

	KafkaBrokers    []string
	KafkaAuditTopic string

	// Functions is the base URL of the serverless batch-job endpoints the
	// pipeline runner drains.
	FunctionsBaseURL string
	FunctionsAPIKey  string

	// StatusRefreshSpec is a cron expression for the periodic pipeline
	// status recomputation. Empty disables the worker.
	StatusRefreshSpec string
}

// RedisConfig controls the optional settings cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads configuration from the environment, after loading an optional
// .env file. Missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:              envOr("VOXLAB_ADDR", ":8080"),
		JWTSigningKey:     envOr("VOXLAB_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:       os.Getenv("VOXLAB_DATABASE_URL"),
		FunctionsBaseURL:  os.Getenv("VOXLAB_FUNCTIONS_URL"),
		FunctionsAPIKey:   os.Getenv("VOXLAB_FUNCTIONS_API_KEY"),
		StatusRefreshSpec: os.Getenv("VOXLAB_STATUS_REFRESH_CRON"),
		KafkaAuditTopic:   envOr("VOXLAB_KAFKA_AUDIT_TOPIC", "voxlab.audit"),
		Redis: RedisConfig{
			URL:          os.Getenv("VOXLAB_REDIS_URL"),
			PoolSize:     envIntOr("VOXLAB_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("VOXLAB_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	if brokers := os.Getenv("VOXLAB_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
