package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Built once in main and passed to the components that need it;
// nothing reads the environment after startup.
type Config struct {
	// Server
	Environment string // dev | prod
	ServerPort  string

	// Storage: sqlite file in dev, postgres DSN in prod
	DatabaseURL string
	SQLitePath  string

	// Auth
	SecretKey     string
	Algorithm     string // HS256 | HS384 | HS512
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string

	// Redis (optional QR image cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Application
	PublicBaseURL      string // used to build absolute short URLs for QR encoding
	CodeLength         int
	RateLimitPerMinute int
	StaticDir          string
}

// Load reads configuration from environment variables.
// Returns an error when a required value is missing; callers treat that
// as fatal, the service never runs half-configured.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServerPort:  getEnv("SERVER_PORT", "8000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "qrlinks_dev.db"),

		SecretKey:     os.Getenv("SECRET_KEY"),
		Algorithm:     getEnv("ALGORITHM", "HS256"),
		TokenTTL:      time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		AdminUsername: strings.TrimSpace(getEnv("ADMIN_USERNAME", os.Getenv("USERNAME"))),
		AdminPassword: strings.TrimSpace(getEnv("ADMIN_PASSWORD", os.Getenv("PASSWORD"))),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,

		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),
		CodeLength:         getEnvAsInt("SHORT_CODE_LENGTH", 7),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		StaticDir:          getEnv("STATIC_DIR", "web"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is not set")
	}

	if c.AdminUsername == "" || c.AdminPassword == "" {
		return fmt.Errorf("set ADMIN_USERNAME/ADMIN_PASSWORD (or USERNAME/PASSWORD)")
	}

	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported ALGORITHM %q", c.Algorithm)
	}

	if c.IsProduction() && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set in production")
	}

	if c.CodeLength < 4 || c.CodeLength > 12 {
		return fmt.Errorf("SHORT_CODE_LENGTH must be between 4 and 12, got %d", c.CodeLength)
	}

	if c.PublicBaseURL == "" {
		return fmt.Errorf("PUBLIC_BASE_URL is required")
	}

	return nil
}

// IsProduction returns true if running in prod mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// IsDevelopment returns true if running in dev mode.
func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

// IsHTTPS reports whether the public base URL is served over TLS.
// Controls the Secure flag on the auth cookie.
func (c *Config) IsHTTPS() bool {
	return strings.HasPrefix(c.PublicBaseURL, "https://")
}

// ShortURL builds the absolute short URL for a code.
func (c *Config) ShortURL(code string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.PublicBaseURL, "/"), code)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
