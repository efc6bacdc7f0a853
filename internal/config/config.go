package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server's runtime configuration, loaded from the
// environment (optionally via a .env file).
type Config struct {
	Port      string
	JWTSecret string

	// DatabaseURL points at an external Postgres. When empty the server
	// boots an embedded instance for zero-config development.
	DatabaseURL string

	UploadDir string
	AuditLog  string

	// EnableEchoDemo exposes the unauthenticated echo endpoint used to
	// demonstrate what an unvalidated key exchange looks like. It must
	// never be on in production; the endpoint never touches the ledger.
	EnableEchoDemo bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      secret,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AuditLog:       getEnv("AUDIT_LOG", "security.log"),
		EnableEchoDemo: getBool("SEALEDCHAT_ENABLE_ECHO_DEMO"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
