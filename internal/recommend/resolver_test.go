// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshizora-labs/animerec/internal/catalog"
)

func resolverStore() *catalog.Store {
	return catalog.NewStore([]catalog.Item{
		{ID: 20, Title: "Naruto", Genres: []string{"Action", "Adventure"}, Type: "tv", Rating: 8.0, Members: 500000},
		{ID: 269, Title: "Bleach", Genres: []string{"Action", "Supernatural"}, Type: "tv", Rating: 7.5, Members: 400000},
		{ID: 5680, Title: "K-On!", Genres: []string{"Slice of Life"}, Type: "tv", Rating: 7.0, Members: 300000},
		{ID: 199, Title: "Sen to Chihiro no Kamikakushi", Genres: []string{"Adventure", "Drama"}, Type: "movie", Rating: 8.9, Members: 600000},
		{ID: 523, Title: "Tonari no Totoro", Genres: []string{"Adventure", "Comedy"}, Type: "movie", Rating: 8.4, Members: 350000},
	})
}

func TestResolver_ResolveTitle(t *testing.T) {
	t.Parallel()

	r := NewResolver(resolverStore())

	t.Run("exact case-insensitive match", func(t *testing.T) {
		t.Parallel()
		idx, err := r.ResolveTitle("naruto")
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("punctuation-insensitive exact match", func(t *testing.T) {
		t.Parallel()
		idx, err := r.ResolveTitle("k-on")
		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	})

	t.Run("substring falls back to first catalog-order match", func(t *testing.T) {
		t.Parallel()
		// No exact match for "aru"; "Naruto" is the first title containing it.
		idx, err := r.ResolveTitle("aru")
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("no match yields NotFound", func(t *testing.T) {
		t.Parallel()
		_, err := r.ResolveTitle("definitely not a show")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank title is invalid", func(t *testing.T) {
		t.Parallel()
		_, err := r.ResolveTitle("   ")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestResolver_ValidateType(t *testing.T) {
	t.Parallel()

	r := NewResolver(resolverStore())

	tests := []struct {
		name    string
		typeTag string
		want    string
		wantErr bool
	}{
		{name: "empty means all", typeTag: "", want: "all"},
		{name: "sentinel all", typeTag: "all", want: "all"},
		{name: "known type", typeTag: "tv", want: "tv"},
		{name: "case normalized", typeTag: "Movie", want: "movie"},
		{name: "unknown type", typeTag: "podcast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.ValidateType(tt.typeTag)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_SampleRandom(t *testing.T) {
	t.Parallel()

	r := NewResolver(resolverStore())

	t.Run("distinct indices within the filter", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(1))
		got := r.SampleRandom(rng, 2, "tv")
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0], got[1])
		for _, idx := range got {
			assert.Equal(t, "tv", resolverStore().Get(idx).Type)
		}
	})

	t.Run("never exceeds the matching pool", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(1))
		got := r.SampleRandom(rng, 5, "movie")
		assert.Len(t, got, 2)
	})

	t.Run("empty pool yields empty result", func(t *testing.T) {
		t.Parallel()
		empty := NewResolver(catalog.NewStore(nil))
		rng := rand.New(rand.NewSource(1))
		assert.Empty(t, empty.SampleRandom(rng, 3, "all"))
	})

	t.Run("reproducible under a fixed seed", func(t *testing.T) {
		t.Parallel()
		a := r.SampleRandom(rand.New(rand.NewSource(42)), 3, "all")
		b := r.SampleRandom(rand.New(rand.NewSource(42)), 3, "all")
		assert.Equal(t, a, b)
	})
}

func TestResolver_FilterByType(t *testing.T) {
	t.Parallel()

	r := NewResolver(resolverStore())
	store := resolverStore()

	items := []ScoredItem{
		{Item: store.Get(0), Score: 0.9}, // tv
		{Item: store.Get(3), Score: 0.8}, // movie
		{Item: store.Get(1), Score: 0.7}, // tv
	}

	t.Run("sentinel keeps everything", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, r.FilterByType(items, "all"), 3)
	})

	t.Run("filters and preserves order", func(t *testing.T) {
		t.Parallel()
		got := r.FilterByType(items, "tv")
		require.Len(t, got, 2)
		assert.Equal(t, "Naruto", got[0].Item.Title)
		assert.Equal(t, "Bleach", got[1].Item.Title)
	})
}
