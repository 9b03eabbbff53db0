// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "data/anime_clean.csv", cfg.Data.CatalogPath)
	assert.True(t, cfg.Recommend.TrainOnStartup)
	assert.False(t, cfg.Recommend.RequireKnownUser)
	assert.Equal(t, int64(42), cfg.Recommend.Seed)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(c *Config) {}},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			wantErr: "server.timeout",
		},
		{
			name:    "empty catalog path",
			mutate:  func(c *Config) { c.Data.CatalogPath = "" },
			wantErr: "data.catalog_path",
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.Recommend.CacheTTL = -time.Second },
			wantErr: "recommend.cache_ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ANIME_DATA_PATH", "/tmp/catalog.csv")
	t.Setenv("RECOMMEND_REQUIRE_KNOWN_USER", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/catalog.csv", cfg.Data.CatalogPath)
	assert.True(t, cfg.Recommend.RequireKnownUser)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_UnmappedEnvIgnored(t *testing.T) {
	t.Setenv("RANDOM_UNRELATED_VAR", "zzz")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "server.port", envTransformFunc("HTTP_PORT"))
	assert.Equal(t, "data.catalog_path", envTransformFunc("anime_data_path"))
	assert.Equal(t, "", envTransformFunc("PATH"))
}
