package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/services"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	AuthModeSession = "session"
	AuthModeJWT     = "jwt"

	defaultDatabase = "journal"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`

	MongoURI            string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/journal"`
	MongoDatabase       string        `env:"MONGODB_DATABASE"`
	MongoConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"30s"`
	PostgresURI         string        `env:"POSTGRES_URI" envDefault:"postgres://localhost:5432/journal?sslmode=disable"`
	RedisURI            string        `env:"REDIS_URI" envDefault:"redis://localhost:6379/0"`

	AuthMode   string        `env:"AUTH_MODE" envDefault:"session"`
	JWTSecret  string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// CORS origins; must include the production frontend origin
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	// Key rate limits on X-Forwarded-For / X-Real-IP; only behind a proxy that sets them
	TrustProxy     bool          `env:"TRUST_PROXY" envDefault:"false"`

	AllowAnonymousCreate bool   `env:"ALLOW_ANONYMOUS_CREATE" envDefault:"true"`
	AnonymousOwnerID     string `env:"ANONYMOUS_OWNER_ID" envDefault:"temp-user-id"`
	EnforceOwnership     bool   `env:"ENFORCE_OWNERSHIP" envDefault:"false"`

	// Fixed-window limit used outside production
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))
	cfg.AllowedOrigins = cleanOrigins(cfg.AllowedOrigins)

	switch cfg.AuthMode {
	case AuthModeSession, AuthModeJWT:
	default:
		return nil, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeSession, AuthModeJWT, cfg.AuthMode)
	}
	if cfg.RateLimitRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimitRequests)
	}
	if cfg.IsProduction() && cfg.AuthMode == AuthModeJWT && cfg.JWTSecret == "your-secret-key-change-in-production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseName prefers MONGODB_DATABASE, then the path of MONGODB_URI.
func (c *Config) DatabaseName() string {
	if name := strings.TrimSpace(c.MongoDatabase); name != "" {
		return name
	}
	uri := c.MongoURI
	if idx := strings.Index(uri, "://"); idx != -1 {
		uri = uri[idx+3:]
	}
	if idx := strings.IndexAny(uri, "?#"); idx != -1 {
		uri = uri[:idx]
	}
	idx := strings.Index(uri, "/")
	if idx == -1 {
		return defaultDatabase
	}
	if name := strings.Trim(uri[idx+1:], "/ "); name != "" {
		return name
	}
	return defaultDatabase
}

// Policy applies the configured overrides to services.DefaultPolicy. A blank
// ANONYMOUS_OWNER_ID keeps the default placeholder.
func (c *Config) Policy() services.Policy {
	policy := services.DefaultPolicy()
	policy.AllowAnonymousCreate = c.AllowAnonymousCreate
	policy.EnforceOwnership = c.EnforceOwnership
	if owner := strings.TrimSpace(c.AnonymousOwnerID); owner != "" {
		policy.PlaceholderOwnerID = owner
	}
	return policy
}

func cleanOrigins(origins []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		key := strings.ToLower(o)
		if o == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	if len(out) == 0 {
		out = []string{"http://localhost:3000"}
	}
	return out
}
