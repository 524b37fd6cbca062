package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables.
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production

	// Interview Service
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Durable session slot (single bearer token)
	TokenDBPath string

	// Stub service (cmd/stubserver only)
	StubPort     string
	GinMode      string
	JWTSecret    string
	JWTAccessTTL time.Duration

	// HTTP access log toggle (stub gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "prepdeck"),
		Env:     getenv("APP_ENV", "development"),

		APIBaseURL:  getenv("API_BASE_URL", "http://localhost:8001"),
		HTTPTimeout: getdur("HTTP_TIMEOUT", 60*time.Second),

		TokenDBPath: getenv("TOKEN_DB_PATH", defaultTokenDBPath()),

		StubPort:     getenv("STUB_PORT", "8001"),
		GinMode:      getenv("GIN_MODE", "release"),
		JWTSecret:    getenv("JWT_SECRET", "devstubsecret"),
		JWTAccessTTL: getdur("JWT_ACCESS_TTL", 24*time.Hour),

		// HTTP access log toggle (default false; enable when needed)
		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// defaultTokenDBPath keeps the session slot under the user config dir,
// falling back to the working directory when it cannot be resolved.
func defaultTokenDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "prepdeck.db"
	}
	return filepath.Join(dir, "prepdeck", "session.db")
}
