package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	DatabaseURL     string
	JWTSigningKey   string
	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("MALKHANA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Empty means no database: stores fall back to in-memory, which is the
	// dev and test mode.
	databaseURL := os.Getenv("MALKHANA_DATABASE_URL")

	jwtSigningKey := os.Getenv("MALKHANA_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default, must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:            addr,
		DatabaseURL:     databaseURL,
		JWTSigningKey:   jwtSigningKey,
		ShutdownTimeout: 10 * time.Second,
	}
}
