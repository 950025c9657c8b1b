package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig mirrors the environment variables understood by WithEnv.
// Unset variables keep the value already present in the ServerConfig.
type envConfig struct {
	Port        string `env:"PORT"`
	Environment string `env:"ENVIRONMENT"`
	LogLevel    string `env:"LOG_LEVEL"`

	DatabaseURL string `env:"DATABASE_URL" env-description:"'memory' or postgres[ql]://..."`
	DBSchema    string `env:"DB_SCHEMA"`
	SeedContent bool   `env:"SEED_CONTENT"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`

	AdminEmail        string `env:"ADMIN_EMAIL"`
	AdminName         string `env:"ADMIN_NAME"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	CORSAllowedOrigins      []string `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	LoginRateLimitPerMinute int      `env:"LOGIN_RATE_LIMIT_PER_MINUTE"`
	TrustProxyHeaders       bool     `env:"TRUST_PROXY_HEADERS"`
	EnableMetrics           bool     `env:"ENABLE_METRICS"`
}

// WithEnv applies environment variable overrides.
//
// Server:
//
//	PORT, ENVIRONMENT, LOG_LEVEL
//
// Database:
//
//	DATABASE_URL - "memory" (or empty) for the in-memory store, or a
//	               "postgres://" / "postgresql://" connection string
//	DB_SCHEMA    - Postgres schema (default: "cms")
//	SEED_CONTENT - load the sample collection into an empty store
//
// Sessions and admin account:
//
//	SESSION_SECRET, SESSION_TTL (e.g. "12h")
//	ADMIN_EMAIL, ADMIN_NAME, ADMIN_PASSWORD, ADMIN_PASSWORD_HASH
//
// HTTP:
//
//	CORS_ALLOWED_ORIGINS (comma separated), LOGIN_RATE_LIMIT_PER_MINUTE,
//	TRUST_PROXY_HEADERS, ENABLE_METRICS
func WithEnv() Option {
	return func(c *ServerConfig) error {
		env := envConfig{
			Port:                    c.Port,
			Environment:             c.Environment,
			LogLevel:                c.LogLevel,
			DatabaseURL:             c.DatabaseURL,
			DBSchema:                c.DBSchema,
			SeedContent:             c.SeedContent,
			SessionSecret:           c.SessionSecret,
			SessionTTL:              c.SessionTTL,
			AdminEmail:              c.AdminEmail,
			AdminName:               c.AdminName,
			AdminPassword:           c.AdminPassword,
			AdminPasswordHash:       c.AdminPasswordHash,
			CORSAllowedOrigins:      c.CORSAllowedOrigins,
			LoginRateLimitPerMinute: c.LoginRateLimitPerMinute,
			TrustProxyHeaders:       c.TrustProxyHeaders,
			EnableMetrics:           c.EnableMetrics,
		}
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		if env.Port != "" {
			c.Port = env.Port
		}
		if env.Environment != "" {
			c.Environment = env.Environment
		}
		if env.LogLevel != "" {
			c.LogLevel = env.LogLevel
		}
		c.DBSchema = env.DBSchema
		c.SeedContent = env.SeedContent
		if env.SessionSecret != "" {
			c.SessionSecret = env.SessionSecret
		}
		c.SessionTTL = env.SessionTTL
		c.AdminEmail = env.AdminEmail
		c.AdminName = env.AdminName
		c.AdminPassword = env.AdminPassword
		c.AdminPasswordHash = env.AdminPasswordHash
		c.CORSAllowedOrigins = trimAll(env.CORSAllowedOrigins)
		c.LoginRateLimitPerMinute = env.LoginRateLimitPerMinute
		c.TrustProxyHeaders = env.TrustProxyHeaders
		c.EnableMetrics = env.EnableMetrics

		return applyDatabaseURL(env.DatabaseURL, c)
	}
}

// applyDatabaseURL detects the database type from the URL scheme
func applyDatabaseURL(dbURL string, c *ServerConfig) error {
	switch {
	case dbURL == "" || dbURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
	}
	return nil
}

// EnvUsage returns a description of every supported environment variable
func EnvUsage() (string, error) {
	return cleanenv.GetDescription(&envConfig{}, nil)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
