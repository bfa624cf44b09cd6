// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Curado API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis). Only required when SessionBackend is "redis".
	RedisURL string `env:"REDIS_URL"`

	// SessionBackend selects the session store adapter: "postgres" or "redis".
	// User accounts always live in PostgreSQL regardless of this setting.
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"postgres"`

	// TrustedOrigins lists additional hosts (host[:port]) accepted by the
	// origin verifier besides the serving host itself.
	TrustedOrigins []string `env:"TRUSTED_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.SessionBackend != "postgres" && cfg.SessionBackend != "redis" {
		return nil, fmt.Errorf("config: invalid SESSION_BACKEND %q (expected postgres or redis)", cfg.SessionBackend)
	}

	if cfg.SessionBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("config: REDIS_URL is required when SESSION_BACKEND=redis")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
