package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// DefaultAdminPasswordHash is the bcrypt hash of "password" shipped with the
// original seed account. It is rejected in production.
const DefaultAdminPasswordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

var knownWeakSecrets = []string{
	"your-secret-key", "change-me", "secret", "admin", "password",
}

type Config struct {
	Port               int      `env:"PORT" envDefault:"5000"`
	Environment        string   `env:"APP_ENV" envDefault:"development"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret          string   `env:"JWT_SECRET" envDefault:"your-secret-key"`
	TokenTTLHours      int      `env:"TOKEN_TTL_HOURS" envDefault:"24"`
	AdminEmail         string   `env:"ADMIN_EMAIL" envDefault:"admin@timvest.co.za"`
	AdminPasswordHash  string   `env:"ADMIN_PASSWORD_HASH" envDefault:"$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"`
	AdminName          string   `env:"ADMIN_NAME" envDefault:"System Administrator"`
	StoreDriver        string   `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL        string   `env:"DATABASE_URL"`
	RedisURL           string   `env:"REDIS_URL"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	AllowRedecision    bool     `env:"ALLOW_REDECISION" envDefault:"false"`
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate(isProduction bool) error {
	if c.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL must not be empty")
	}
	if !strings.HasPrefix(c.AdminPasswordHash, "$2a$") &&
		!strings.HasPrefix(c.AdminPasswordHash, "$2b$") &&
		!strings.HasPrefix(c.AdminPasswordHash, "$2y$") {
		return fmt.Errorf("ADMIN_PASSWORD_HASH must be a bcrypt hash (generate with: go run scripts/hash-password.go <password>)")
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}

	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case StoreDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (expected memory, postgres or redis)", c.StoreDriver)
	}

	if isProduction {
		if err := validateSecret("JWT_SECRET", c.JWTSecret); err != nil {
			return err
		}
		if c.AdminPasswordHash == DefaultAdminPasswordHash {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is the default seed credential; set a real hash in production")
		}

		if c.StoreDriver == StoreDriverMemory {
			log.Warn().Msg("STORE_DRIVER is memory in production: applications are lost on restart")
		}
		for _, origin := range c.CORSAllowedOrigins {
			if origin == "*" {
				log.Warn().Msg("CORS_ALLOWED_ORIGINS allows any origin in production")
				break
			}
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
