// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package algorithms

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
)

// RatingTriple is one observed (user, item, score) training example. Item
// refers to a catalog index, not a dataset ID; the caller maps IDs before
// training.
type RatingTriple struct {
	User  int
	Item  int
	Score float64
}

// FactorizationParams holds the SGD hyperparameters.
type FactorizationParams struct {
	Factors        int
	LearningRate   float64
	Regularization float64
	Epochs         int

	// RatingMin and RatingMax bound predictions to the explicit scale.
	RatingMin float64
	RatingMax float64

	// Seed makes factor initialization deterministic.
	Seed int64
}

// Factorization is a biased matrix-factorization model over explicit
// ratings. A prediction is the global mean plus user and item biases plus
// the dot product of the latent factors, clamped to the rating scale.
// The model is immutable after Train, so concurrent reads are safe.
type Factorization struct {
	params FactorizationParams

	globalMean float64

	// userIndex maps external user IDs to row positions.
	userIndex map[int]int

	userFactors [][]float64
	itemFactors [][]float64
	userBias    []float64
	itemBias    []float64

	// rated[u] holds the catalog indexes user row u has rated.
	rated []map[int]struct{}

	numItems int
	trained  bool
}

// Prediction pairs a catalog index with a predicted rating.
type Prediction struct {
	Index int
	Score float64
}

// NewFactorization creates an untrained model for a catalog of numItems.
func NewFactorization(numItems int, params FactorizationParams) *Factorization {
	return &Factorization{
		params:    params,
		userIndex: make(map[int]int),
		numItems:  numItems,
	}
}

// Train fits the model on the given ratings with stochastic gradient
// descent. The pass order over ratings is the input order, so identical
// inputs and seed give identical models. ctx is checked between epochs.
func (f *Factorization) Train(ctx context.Context, ratings []RatingTriple) error {
	if len(ratings) == 0 {
		return fmt.Errorf("no training ratings")
	}

	var sum float64
	for _, r := range ratings {
		if r.Item < 0 || r.Item >= f.numItems {
			return fmt.Errorf("rating item index %d out of range [0, %d)", r.Item, f.numItems)
		}
		if _, ok := f.userIndex[r.User]; !ok {
			f.userIndex[r.User] = len(f.userIndex)
		}
		sum += r.Score
	}
	f.globalMean = sum / float64(len(ratings))

	numUsers := len(f.userIndex)
	k := f.params.Factors
	rng := rand.New(rand.NewSource(f.params.Seed))

	f.userFactors = randomFactors(rng, numUsers, k)
	f.itemFactors = randomFactors(rng, f.numItems, k)
	f.userBias = make([]float64, numUsers)
	f.itemBias = make([]float64, f.numItems)

	f.rated = make([]map[int]struct{}, numUsers)
	for i := range f.rated {
		f.rated[i] = make(map[int]struct{})
	}
	for _, r := range ratings {
		f.rated[f.userIndex[r.User]][r.Item] = struct{}{}
	}

	lr := f.params.LearningRate
	reg := f.params.Regularization

	for epoch := 0; epoch < f.params.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for _, r := range ratings {
			u := f.userIndex[r.User]
			i := r.Item

			pred := f.globalMean + f.userBias[u] + f.itemBias[i] + dot(f.userFactors[u], f.itemFactors[i])
			err := r.Score - pred

			f.userBias[u] += lr * (err - reg*f.userBias[u])
			f.itemBias[i] += lr * (err - reg*f.itemBias[i])

			uf := f.userFactors[u]
			itf := f.itemFactors[i]
			for d := 0; d < k; d++ {
				du := uf[d]
				uf[d] += lr * (err*itf[d] - reg*du)
				itf[d] += lr * (err*du - reg*itf[d])
			}
		}
	}

	f.trained = true
	return nil
}

// Trained reports whether Train completed.
func (f *Factorization) Trained() bool {
	return f.trained
}

// KnowsUser reports whether the user appeared in the training data.
func (f *Factorization) KnowsUser(userID int) bool {
	_, ok := f.userIndex[userID]
	return ok
}

// Predict returns the predicted rating for a user and catalog index,
// clamped to the rating scale. Unknown users fall back to the global mean
// plus the item bias, so cold-start predictions still order items by the
// learned item quality.
func (f *Factorization) Predict(userID, item int) (float64, error) {
	if !f.trained {
		return 0, fmt.Errorf("model not trained")
	}
	if item < 0 || item >= f.numItems {
		return 0, fmt.Errorf("item index %d out of range [0, %d)", item, f.numItems)
	}

	pred := f.globalMean + f.itemBias[item]
	if u, ok := f.userIndex[userID]; ok {
		pred += f.userBias[u] + dot(f.userFactors[u], f.itemFactors[item])
	}
	return clamp(pred, f.params.RatingMin, f.params.RatingMax), nil
}

// TopForUser returns up to n predictions for the user over the candidate
// catalog indexes, excluding items the user already rated. Ordering is
// predicted score descending, candidate order breaking ties. Candidates nil
// means the full catalog.
func (f *Factorization) TopForUser(userID, n int, candidates []int) ([]Prediction, error) {
	if !f.trained {
		return nil, fmt.Errorf("model not trained")
	}
	if n <= 0 {
		return []Prediction{}, nil
	}

	if candidates == nil {
		candidates = make([]int, f.numItems)
		for i := range candidates {
			candidates[i] = i
		}
	}

	var seen map[int]struct{}
	if u, ok := f.userIndex[userID]; ok {
		seen = f.rated[u]
	}

	preds := make([]Prediction, 0, len(candidates))
	for _, i := range candidates {
		if seen != nil {
			if _, rated := seen[i]; rated {
				continue
			}
		}
		score, err := f.Predict(userID, i)
		if err != nil {
			return nil, err
		}
		preds = append(preds, Prediction{Index: i, Score: score})
	}

	sort.SliceStable(preds, func(a, b int) bool {
		return preds[a].Score > preds[b].Score
	})

	if n > len(preds) {
		n = len(preds)
	}
	return preds[:n], nil
}

// randomFactors initializes a rows-by-k factor matrix with small values
// around zero.
func randomFactors(rng *rand.Rand, rows, k int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		row := make([]float64, k)
		for d := range row {
			row[d] = (rng.Float64() - 0.5) * 0.1
		}
		m[i] = row
	}
	return m
}

// dot returns the inner product of equal-length vectors.
func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
