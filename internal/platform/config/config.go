package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration. Built from the environment so
// main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string
	Admin         string
	Host          string
	GenesisHeight uint64

	// Per-store admins. Each store has its own authority gate; a transfer
	// on one store never moves the others.
	SupplierAdmin string
	LaborAdmin    string
	MaterialAdmin string
	ConsumerAdmin string
	RedisURL      string
	PostgresURL   string

	RedisDialTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("FAIRTRACE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("FAIRTRACE_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	admin := os.Getenv("FAIRTRACE_ADMIN")
	if admin == "" {
		admin = "0xadmin"
	}

	// The host identity drives the chain clock; it defaults to the default
	// admin for single-operator deployments.
	host := envOr("FAIRTRACE_HOST", admin)

	var genesis uint64
	if raw := os.Getenv("FAIRTRACE_GENESIS_HEIGHT"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			genesis = parsed
		}
	}

	return Server{
		Addr:             addr,
		JWTSigningKey:    jwtSigningKey,
		Admin:            admin,
		Host:             host,
		GenesisHeight:    genesis,
		SupplierAdmin:    envOr("FAIRTRACE_SUPPLIER_ADMIN", admin),
		LaborAdmin:       envOr("FAIRTRACE_LABOR_ADMIN", admin),
		MaterialAdmin:    envOr("FAIRTRACE_MATERIAL_ADMIN", admin),
		ConsumerAdmin:    envOr("FAIRTRACE_CONSUMER_ADMIN", admin),
		RedisURL:         os.Getenv("FAIRTRACE_REDIS_URL"),
		PostgresURL:      os.Getenv("FAIRTRACE_POSTGRES_URL"),
		RedisDialTimeout: 5 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
