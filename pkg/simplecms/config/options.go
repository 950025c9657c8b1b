package config

import (
	"fmt"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithLogLevel sets the minimum log level (DEBUG, INFO, WARN, ERROR)
func WithLogLevel(level string) Option {
	return func(c *ServerConfig) error {
		c.LogLevel = level
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithSeedContent toggles loading the sample collection
func WithSeedContent(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.SeedContent = enabled
		return nil
	}
}

// WithSessionSecret sets the HS256 signing secret
func WithSessionSecret(secret string) Option {
	return func(c *ServerConfig) error {
		if secret == "" {
			return fmt.Errorf("session secret cannot be empty")
		}
		c.SessionSecret = secret
		return nil
	}
}

// WithSessionTTL sets the lifetime of issued sessions
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *ServerConfig) error {
		if ttl <= 0 {
			return fmt.Errorf("session TTL must be positive, got: %s", ttl)
		}
		c.SessionTTL = ttl
		return nil
	}
}

// WithAdminUser sets the admin account with a plaintext password that is
// hashed at startup.
func WithAdminUser(email, name, password string) Option {
	return func(c *ServerConfig) error {
		if email == "" {
			return fmt.Errorf("admin email cannot be empty")
		}
		c.AdminEmail = email
		c.AdminName = name
		c.AdminPassword = password
		c.AdminPasswordHash = ""
		return nil
	}
}

// WithAdminPasswordHash sets a precomputed bcrypt hash for the admin account
func WithAdminPasswordHash(hash string) Option {
	return func(c *ServerConfig) error {
		c.AdminPasswordHash = hash
		return nil
	}
}

// WithCORSAllowedOrigins sets the origins allowed by CORS
func WithCORSAllowedOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.CORSAllowedOrigins = origins
		return nil
	}
}

// WithLoginRateLimit sets login attempts allowed per client per minute.
// Zero disables the limit.
func WithLoginRateLimit(perMinute int) Option {
	return func(c *ServerConfig) error {
		if perMinute < 0 {
			return fmt.Errorf("login rate limit cannot be negative")
		}
		c.LoginRateLimitPerMinute = perMinute
		return nil
	}
}

// WithTrustProxyHeaders makes the server take client IPs from proxy headers.
// Only enable it when a reverse proxy overwrites those headers.
func WithTrustProxyHeaders(trust bool) Option {
	return func(c *ServerConfig) error {
		c.TrustProxyHeaders = trust
		return nil
	}
}

// WithMetrics toggles the Prometheus endpoint
func WithMetrics(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableMetrics = enabled
		return nil
	}
}
