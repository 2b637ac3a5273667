// Package config collects the engine's environment-driven settings in one
// place so main stays a pure wiring exercise.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/MullerEsposito/starkoverflow-engine/pkg/db"
)

// DefaultEscrowAccount holds staked funds between a question being asked
// and its resolution, unless ESCROW_ACCOUNT overrides it.
const DefaultEscrowAccount = "0x0000000000000000000000000000000000e5c404"

type Config struct {
	HTTPPort    string
	MetricsPort string

	DB db.Config

	RedisURL string

	// OwnerAddress gates forum administration.
	OwnerAddress string

	// EscrowAccount holds staked funds until resolution pays them out.
	EscrowAccount string

	// FaucetEnabled exposes the development mint endpoint.
	FaucetEnabled bool
}

func Load() Config {
	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9091"),
		DB: db.Config{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "3306"),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_DATABASE", "starkoverflow_db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 5 * time.Minute,
		},
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		OwnerAddress:  getEnv("OWNER_ADDRESS", ""),
		EscrowAccount: getEnv("ESCROW_ACCOUNT", DefaultEscrowAccount),
		FaucetEnabled: getEnvBool("FAUCET_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
