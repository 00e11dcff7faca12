package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment with a
// .env fallback for local development.
type Config struct {
	ListenAddr  string
	DatabaseURL string
	RedisURL    string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	PinningEndpoint string
	PinningAPIKey   string

	RPCURL          string
	ChainID         int64
	DeployerKey     string
	ContractABIPath string
	ContractBinPath string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:     getenv("DATABASE_URL", "host=localhost user=certmint dbname=certmint port=5432 sslmode=disable"),
		RedisURL:        getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		PinningEndpoint: getenv("PINNING_ENDPOINT", "https://api.pinata.cloud"),
		PinningAPIKey:   os.Getenv("PINNING_API_KEY"),
		RPCURL:          os.Getenv("RPC_URL"),
		DeployerKey:     os.Getenv("DEPLOYER_KEY"),
		ContractABIPath: getenv("CONTRACT_ABI_PATH", "contract/Certificate.abi.json"),
		ContractBinPath: getenv("CONTRACT_BIN_PATH", "contract/Certificate.bin"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	var err error
	if cfg.AccessTTL, err = getduration("ACCESS_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = getduration("REFRESH_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	chainID := getenv("CHAIN_ID", "1")
	if cfg.ChainID, err = strconv.ParseInt(chainID, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid CHAIN_ID %q: %w", chainID, err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
