// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Package config loads and validates application configuration using
// Koanf v2 with layered sources (defaults, YAML file, environment).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	// Server holds HTTP server settings.
	Server ServerConfig `koanf:"server"`

	// Data holds dataset file locations.
	Data DataConfig `koanf:"data"`

	// Recommend holds recommendation engine settings.
	Recommend RecommendConfig `koanf:"recommend"`

	// Logging holds logger settings.
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	// Default: 0.0.0.0.
	Host string `koanf:"host"`

	// Port is the listen port.
	// Default: 8080.
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	// Default: 30s.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs is the allowed requests per client per window.
	// Default: 100.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	// Default: 1m.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists the allowed CORS origins.
	// Default: ["*"].
	CORSOrigins []string `koanf:"cors_origins"`
}

// DataConfig holds dataset file locations.
type DataConfig struct {
	// CatalogPath is the anime catalog CSV.
	// Default: data/anime_clean.csv.
	CatalogPath string `koanf:"catalog_path"`

	// RatingsPath is the user ratings CSV.
	// Default: data/clean_ratings.csv.
	RatingsPath string `koanf:"ratings_path"`

	// MaxRatings caps the number of rating rows loaded for training.
	// Rows beyond the cap are sampled out deterministically.
	// Default: 1000000.
	MaxRatings int `koanf:"max_ratings"`
}

// RecommendConfig holds recommendation engine settings.
// Algorithm constants (feature weights, factor rank, hybrid blend) are fixed
// in the recommend package; only operational knobs live here.
type RecommendConfig struct {
	// TrainOnStartup trains the collaborative model before serving.
	// Default: true.
	TrainOnStartup bool `koanf:"train_on_startup"`

	// RequireKnownUser makes collaborative requests for users absent from the
	// training data fail with an unknown-user error instead of degrading to
	// the bias-only cold-start prediction.
	// Default: false.
	RequireKnownUser bool `koanf:"require_known_user"`

	// CacheTTL is the response cache time-to-live. Zero disables caching.
	// Default: 5m.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Seed is the random seed for deterministic training and sampling.
	// Default: 42.
	Seed int64 `koanf:"seed"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes the caller location in log lines.
	Caller bool `koanf:"caller"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("server.rate_limit_reqs must be positive, got %d", c.Server.RateLimitReqs)
	}
	if c.Data.CatalogPath == "" {
		return fmt.Errorf("data.catalog_path must not be empty")
	}
	if c.Data.RatingsPath == "" {
		return fmt.Errorf("data.ratings_path must not be empty")
	}
	if c.Data.MaxRatings < 1 {
		return fmt.Errorf("data.max_ratings must be positive, got %d", c.Data.MaxRatings)
	}
	if c.Recommend.CacheTTL < 0 {
		return fmt.Errorf("recommend.cache_ttl must be non-negative, got %v", c.Recommend.CacheTTL)
	}
	return nil
}
