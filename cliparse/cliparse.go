// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration. Environment variables fill the
// struct first; command-line flags override them.
type Config struct {
	Port         int    `env:"PORT" envDefault:"3318"`
	DatabaseURL  string `env:"DATABASE_URL" envDefault:"quickly-dine.db"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	TokenIssuer string        `env:"TOKEN_ISSUER" envDefault:"quickly-dine"`

	CandidatePageSize int  `env:"CANDIDATE_PAGE_SIZE" envDefault:"20"`
	FallbackPageSize  int  `env:"FALLBACK_PAGE_SIZE" envDefault:"10"`
	SeedCatalog       bool `env:"SEED_CATALOG" envDefault:"true"`

	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"json"`
	OTelEndpoint   string   `env:"OTEL_ENDPOINT"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// ParseFlags reads the environment, then applies flags from args.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("quickly-dine", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL or sqlite file path")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite, postgres or memory)")
	fs.BoolVar(&cfg.SeedCatalog, "seed", cfg.SeedCatalog, "Seed the restaurant catalog when empty")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing or out-of-range setting.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.DatabaseType {
	case "sqlite", "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.CandidatePageSize <= 0 || c.FallbackPageSize <= 0 {
		return errors.New("candidate page sizes must be positive")
	}
	return nil
}
