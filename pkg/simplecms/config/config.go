package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	repopg "github.com/tendant/simple-cms/pkg/simplecms/repo/postgres"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "dev-secret-change-in-production-32bytes"

// DefaultAdminPassword is only acceptable outside production.
const DefaultAdminPassword = "admin123"

const minSessionSecretLength = 32

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:                    "8080",
		Environment:             "development",
		LogLevel:                "INFO",
		DatabaseType:            "memory",
		DBSchema:                "cms",
		SeedContent:             true,
		SessionSecret:           DefaultSessionSecret,
		SessionTTL:              auth.DefaultSessionTTL,
		AdminEmail:              "admin@winalum.com",
		AdminName:               simplecms.DefaultAuthor,
		AdminPassword:           DefaultAdminPassword,
		CORSAllowedOrigins:      []string{"*"},
		LoginRateLimitPerMinute: 10,
		EnableMetrics:           true,
	}
}

// ServerConfig represents server configuration for the simple-cms service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing
	LogLevel    string

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: cms)
	SeedContent  bool   // load the sample collection into an empty store

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Admin account. AdminPasswordHash wins over AdminPassword.
	AdminEmail        string
	AdminName         string
	AdminPassword     string
	AdminPasswordHash string

	// HTTP options
	CORSAllowedOrigins      []string
	LoginRateLimitPerMinute int
	TrustProxyHeaders       bool // take client IPs from X-Forwarded-For / X-Real-IP
	EnableMetrics           bool
}

// IsProduction reports whether the server runs in production
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if len(c.SessionSecret) < minSessionSecretLength {
		return fmt.Errorf("session_secret must be at least %d bytes", minSessionSecretLength)
	}
	if c.IsProduction() && c.SessionSecret == DefaultSessionSecret {
		return errors.New("session_secret must be changed in production")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}

	if c.AdminEmail == "" {
		return errors.New("admin_email is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("admin_password or admin_password_hash is required")
	}
	if c.IsProduction() && c.AdminPasswordHash == "" && c.AdminPassword == DefaultAdminPassword {
		return errors.New("admin_password must be changed in production")
	}

	if c.LoginRateLimitPerMinute < 0 {
		return errors.New("login_rate_limit_per_minute cannot be negative")
	}

	return nil
}

// BuildService creates a Service from the configuration. The returned
// cleanup func releases the database pool, if any.
func (c *ServerConfig) BuildService(ctx context.Context, opts ...simplecms.Option) (simplecms.Service, func(), error) {
	repo, cleanup, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	options := append([]simplecms.Option{simplecms.WithRepository(repo)}, opts...)
	svc, err := simplecms.New(options...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (simplecms.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		if c.SeedContent {
			return memory.NewSeeded(), func() {}, nil
		}
		return memory.New(), func() {}, nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, nil, errors.New("database_url is required for postgres")
		}
		pool, err := c.newPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		repo := repopg.NewWithPool(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if c.SeedContent {
			n, err := repo.Seed(ctx, simplecms.DefaultSeed())
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
			if n > 0 {
				slog.Info("Seeded content", "items", n)
			}
		}
		return repo, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) newPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	schema := c.DBSchema
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if schema == "" {
			return nil
		}
		_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if schema != "" {
		if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create schema %s: %w", schema, err)
		}
	}
	return pool, nil
}

// BuildCredentialStore creates the credential store holding the admin account
func (c *ServerConfig) BuildCredentialStore() (*auth.CredentialStore, error) {
	hash := c.AdminPasswordHash
	if hash == "" {
		var err error
		hash, err = auth.HashPassword(c.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}
	return auth.NewCredentialStore(auth.User{
		Email:        c.AdminEmail,
		Name:         c.AdminName,
		PasswordHash: hash,
	})
}

// BuildSessionManager creates the session manager. Cookies are marked
// Secure in production.
func (c *ServerConfig) BuildSessionManager() *auth.SessionManager {
	return auth.NewSessionManager([]byte(c.SessionSecret), c.SessionTTL, c.IsProduction())
}
