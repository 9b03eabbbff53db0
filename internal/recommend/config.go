// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import (
	"fmt"
	"time"
)

// Result count limits enforced on every request.
const (
	// MinCount is the smallest accepted result count.
	MinCount = 1

	// MaxCount is the largest accepted result count.
	MaxCount = 20

	// DefaultCount is used when a request leaves the count unset (zero).
	DefaultCount = 8
)

// Rating scale bounds for collaborative predictions.
const (
	// RatingMin is the lower bound of the explicit rating scale.
	RatingMin = 1.0

	// RatingMax is the upper bound of the explicit rating scale.
	RatingMax = 10.0
)

// candidatePoolMultiple sizes the over-fetch pool used by diversity and
// series filtering: n*candidatePoolMultiple candidates are scored before the
// final n are selected.
const candidatePoolMultiple = 3

// FeatureWeights scales the three feature groups of the content vectors.
type FeatureWeights struct {
	// Genre weights the multi-hot genre block.
	Genre float64 `koanf:"genre"`

	// Rating weights the normalized community rating.
	Rating float64 `koanf:"rating"`

	// Popularity weights the normalized member count.
	Popularity float64 `koanf:"popularity"`
}

// FactorizationConfig holds the latent-factor training hyperparameters.
type FactorizationConfig struct {
	// Factors is the latent dimension of the user and item embeddings.
	Factors int `koanf:"factors"`

	// LearningRate is the SGD step size.
	LearningRate float64 `koanf:"learning_rate"`

	// Regularization is the L2 penalty applied to factors and biases.
	Regularization float64 `koanf:"regularization"`

	// Epochs is the number of full passes over the training ratings.
	Epochs int `koanf:"epochs"`
}

// HybridWeights blends the two ranking sources of the hybrid strategy.
type HybridWeights struct {
	// Content weights the content-similarity percentile.
	Content float64 `koanf:"content"`

	// Collaborative weights the predicted-rating percentile.
	Collaborative float64 `koanf:"collaborative"`
}

// Config holds the engine's tunable parameters. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Features scales the content feature groups.
	Features FeatureWeights `koanf:"features"`

	// Factorization holds the collaborative training hyperparameters.
	Factorization FactorizationConfig `koanf:"factorization"`

	// Hybrid blends content and collaborative percentiles.
	Hybrid HybridWeights `koanf:"hybrid"`

	// RequireKnownUser rejects collaborative and hybrid requests for users
	// absent from the training data instead of degrading to cold-start
	// predictions.
	RequireKnownUser bool `koanf:"require_known_user"`

	// CacheTTL bounds how long a computed response may be served from the
	// response cache. Zero disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Seed seeds the random sampler and the factor initializer, making runs
	// reproducible.
	Seed int64 `koanf:"seed"`
}

// DefaultConfig returns the engine defaults. The numeric values match the
// tuning the catalog data was validated against.
func DefaultConfig() Config {
	return Config{
		Features: FeatureWeights{
			Genre:      0.5,
			Rating:     0.3,
			Popularity: 0.2,
		},
		Factorization: FactorizationConfig{
			Factors:        50,
			LearningRate:   0.003,
			Regularization: 0.05,
			Epochs:         20,
		},
		Hybrid: HybridWeights{
			Content:       0.6,
			Collaborative: 0.4,
		},
		RequireKnownUser: false,
		CacheTTL:         5 * time.Minute,
		Seed:             42,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.Features.Genre < 0 || c.Features.Rating < 0 || c.Features.Popularity < 0 {
		return fmt.Errorf("feature weights must be non-negative")
	}
	if c.Features.Genre+c.Features.Rating+c.Features.Popularity <= 0 {
		return fmt.Errorf("at least one feature weight must be positive")
	}
	if c.Factorization.Factors <= 0 {
		return fmt.Errorf("factorization factors must be positive, got %d", c.Factorization.Factors)
	}
	if c.Factorization.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %g", c.Factorization.LearningRate)
	}
	if c.Factorization.Regularization < 0 {
		return fmt.Errorf("regularization must be non-negative, got %g", c.Factorization.Regularization)
	}
	if c.Factorization.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Factorization.Epochs)
	}
	if c.Hybrid.Content < 0 || c.Hybrid.Collaborative < 0 {
		return fmt.Errorf("hybrid weights must be non-negative")
	}
	if c.Hybrid.Content+c.Hybrid.Collaborative <= 0 {
		return fmt.Errorf("at least one hybrid weight must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must be non-negative, got %v", c.CacheTTL)
	}
	return nil
}

// clampCount validates and normalizes a requested result count.
// Zero selects the default; values outside [MinCount, MaxCount] error.
func clampCount(n int) (int, error) {
	if n == 0 {
		return DefaultCount, nil
	}
	if n < MinCount || n > MaxCount {
		return 0, fmt.Errorf("%w: count %d outside [%d, %d]", ErrInvalidArgument, n, MinCount, MaxCount)
	}
	return n, nil
}
