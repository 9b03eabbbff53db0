// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Command server runs the anime recommendation HTTP service.
//
// Startup order: load configuration, load the catalog, build the content
// similarity index, train the collaborative model, then serve. The HTTP
// listener runs under a suture supervisor so transient serve failures
// restart it instead of killing the process.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoshizora-labs/animerec/internal/api"
	"github.com/hoshizora-labs/animerec/internal/catalog"
	"github.com/hoshizora-labs/animerec/internal/config"
	"github.com/hoshizora-labs/animerec/internal/logging"
	"github.com/hoshizora-labs/animerec/internal/metrics"
	"github.com/hoshizora-labs/animerec/internal/recommend"
	"github.com/hoshizora-labs/animerec/internal/supervisor"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	log := logging.Logger()

	log.Info().
		Str("version", version).
		Str("catalog", cfg.Data.CatalogPath).
		Str("ratings", cfg.Data.RatingsPath).
		Msg("Starting animerec")

	store, err := catalog.LoadStore(cfg.Data.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}
	metrics.CatalogItems.Set(float64(store.Size()))
	log.Info().Int("items", store.Size()).Msg("Catalog loaded")

	engineCfg := recommend.DefaultConfig()
	engineCfg.RequireKnownUser = cfg.Recommend.RequireKnownUser
	engineCfg.CacheTTL = cfg.Recommend.CacheTTL
	engineCfg.Seed = cfg.Recommend.Seed

	engine, err := recommend.New(store, engineCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}

	if cfg.Recommend.TrainOnStartup {
		ratings, err := catalog.LoadRatings(cfg.Data.RatingsPath, cfg.Data.MaxRatings)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load ratings")
		}
		metrics.TrainingRatings.Set(float64(len(ratings)))

		start := time.Now()
		if err := engine.Train(context.Background(), ratings); err != nil {
			log.Fatal().Err(err).Msg("Failed to train collaborative model")
		}
		metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	} else {
		log.Warn().Msg("Startup training disabled, collaborative and hybrid strategies unavailable until trained")
	}

	handlers := api.NewHandlers(engine, version, log)
	router := api.NewRouter(handlers, cfg.Server, log)
	server := api.NewServer(cfg.Server, router, log)

	tree := supervisor.New("animerec",
		slog.New(slog.NewJSONHandler(os.Stderr, nil)),
		supervisor.DefaultConfig())
	tree.Add(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Supervisor exited with error")
	}
	log.Info().Msg("Shutdown complete")
}
