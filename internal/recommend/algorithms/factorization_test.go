// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package algorithms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() FactorizationParams {
	return FactorizationParams{
		Factors:        50,
		LearningRate:   0.003,
		Regularization: 0.05,
		Epochs:         20,
		RatingMin:      1,
		RatingMax:      10,
		Seed:           42,
	}
}

// Two user cohorts: users 1 and 2 love items 0-1 and dislike items 2-3,
// user 3 the opposite. Enough structure for the factors to pick up.
func testRatings() []RatingTriple {
	return []RatingTriple{
		{User: 1, Item: 0, Score: 9},
		{User: 1, Item: 1, Score: 8},
		{User: 1, Item: 2, Score: 3},
		{User: 2, Item: 0, Score: 10},
		{User: 2, Item: 1, Score: 9},
		{User: 2, Item: 3, Score: 2},
		{User: 3, Item: 2, Score: 9},
		{User: 3, Item: 3, Score: 8},
		{User: 3, Item: 0, Score: 3},
	}
}

func TestFactorization_Train(t *testing.T) {
	t.Parallel()

	t.Run("trains on valid ratings", func(t *testing.T) {
		t.Parallel()
		f := NewFactorization(4, testParams())
		require.False(t, f.Trained())
		require.NoError(t, f.Train(context.Background(), testRatings()))
		assert.True(t, f.Trained())
	})

	t.Run("rejects empty ratings", func(t *testing.T) {
		t.Parallel()
		f := NewFactorization(4, testParams())
		assert.Error(t, f.Train(context.Background(), nil))
	})

	t.Run("rejects out of range item", func(t *testing.T) {
		t.Parallel()
		f := NewFactorization(2, testParams())
		err := f.Train(context.Background(), []RatingTriple{{User: 1, Item: 5, Score: 7}})
		assert.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()
		f := NewFactorization(4, testParams())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := f.Train(ctx, testRatings())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFactorization_Predict(t *testing.T) {
	t.Parallel()

	f := NewFactorization(4, testParams())
	require.NoError(t, f.Train(context.Background(), testRatings()))

	t.Run("predictions stay on the rating scale", func(t *testing.T) {
		t.Parallel()
		for _, user := range []int{1, 2, 3, 999} {
			for item := 0; item < 4; item++ {
				p, err := f.Predict(user, item)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, p, 1.0)
				assert.LessOrEqual(t, p, 10.0)
			}
		}
	})

	t.Run("learned preferences order items", func(t *testing.T) {
		t.Parallel()
		liked, err := f.Predict(1, 0)
		require.NoError(t, err)
		disliked, err := f.Predict(1, 2)
		require.NoError(t, err)
		assert.Greater(t, liked, disliked)
	})

	t.Run("cold start uses item bias", func(t *testing.T) {
		t.Parallel()
		// Item 0 is rated well overall, item 3 poorly; an unknown user
		// should still see that ordering.
		good, err := f.Predict(999, 0)
		require.NoError(t, err)
		bad, err := f.Predict(999, 3)
		require.NoError(t, err)
		assert.Greater(t, good, bad)
	})

	t.Run("untrained model errors", func(t *testing.T) {
		t.Parallel()
		blank := NewFactorization(4, testParams())
		_, err := blank.Predict(1, 0)
		assert.Error(t, err)
	})

	t.Run("out of range item errors", func(t *testing.T) {
		t.Parallel()
		_, err := f.Predict(1, 42)
		assert.Error(t, err)
	})
}

func TestFactorization_TopForUser(t *testing.T) {
	t.Parallel()

	f := NewFactorization(4, testParams())
	require.NoError(t, f.Train(context.Background(), testRatings()))

	t.Run("excludes already rated items", func(t *testing.T) {
		t.Parallel()
		got, err := f.TopForUser(1, 10, nil)
		require.NoError(t, err)
		// User 1 rated items 0, 1, 2; only item 3 remains.
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Index)
	})

	t.Run("unknown user sees the full candidate set", func(t *testing.T) {
		t.Parallel()
		got, err := f.TopForUser(999, 10, nil)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("descending score order", func(t *testing.T) {
		t.Parallel()
		got, err := f.TopForUser(999, 4, nil)
		require.NoError(t, err)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
		}
	})

	t.Run("candidate filter restricts the pool", func(t *testing.T) {
		t.Parallel()
		got, err := f.TopForUser(999, 10, []int{1, 3})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, p := range got {
			assert.Contains(t, []int{1, 3}, p.Index)
		}
	})
}

func TestFactorization_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewFactorization(4, testParams())
	require.NoError(t, a.Train(context.Background(), testRatings()))
	b := NewFactorization(4, testParams())
	require.NoError(t, b.Train(context.Background(), testRatings()))

	for item := 0; item < 4; item++ {
		pa, err := a.Predict(1, item)
		require.NoError(t, err)
		pb, err := b.Predict(1, item)
		require.NoError(t, err)
		assert.Equal(t, pa, pb)
	}
}

func TestFactorization_KnowsUser(t *testing.T) {
	t.Parallel()

	f := NewFactorization(4, testParams())
	require.NoError(t, f.Train(context.Background(), testRatings()))

	assert.True(t, f.KnowsUser(1))
	assert.False(t, f.KnowsUser(999))
}
