package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr        string `envconfig:"APP_ADDR" default:":8080"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	JWTSecret   string `envconfig:"JWT_SECRET"`

	DataEncryptionKey string `envconfig:"DATA_ENCRYPTION_KEY"`
	FrontendDir       string `envconfig:"FRONTEND_DIR" default:"frontend/dist"`

	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	RunSeed       bool   `envconfig:"RUN_SEED" default:"true"`

	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`

	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`

	MaxBodyBytes       int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RateLimitPerMinute int   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	AttendanceSweepInterval time.Duration `envconfig:"ATTENDANCE_SWEEP_INTERVAL" default:"24h"`
	TicketSweepInterval     time.Duration `envconfig:"TICKET_SWEEP_INTERVAL" default:"1h"`
	TicketStaleAfter        time.Duration `envconfig:"TICKET_STALE_AFTER" default:"72h"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
