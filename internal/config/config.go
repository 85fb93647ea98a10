// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds the service-level settings. Database and logging have their
// own ConfigFromEnv in pkg/database and pkg/utilities.
type Config struct {
	HTTPAddr      string
	StorageDriver string
	JWTSecret     string
	JWTTTL        time.Duration
	JWTIssuer     string
	BcryptCost    int
}

// FromEnv reads HTTP_ADDR, STORAGE_DRIVER, JWT_SECRET, JWT_TTL, JWT_ISSUER and BCRYPT_COST.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:      getenv("HTTP_ADDR", "0.0.0.0:8431"),
		StorageDriver: strings.ToLower(getenv("STORAGE_DRIVER", StoragePostgres)),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getenv("JWT_ISSUER", "service-goods"),
		JWTTTL:        time.Hour,
		BcryptCost:    12,
	}

	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return cfg, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid JWT_TTL %q", v)
		}
		cfg.JWTTTL = d
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4 || n > 31 {
			return cfg, fmt.Errorf("invalid BCRYPT_COST %q", v)
		}
		cfg.BcryptCost = n
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
