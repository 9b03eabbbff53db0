// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore() *Store {
	return NewStore([]Item{
		{ID: 20, Title: "Naruto", Genres: []string{"Action", "Adventure"}, Type: "TV", Rating: 8.0, Members: 500000},
		{ID: 269, Title: "Bleach", Genres: []string{"Action", "Supernatural"}, Type: "tv", Rating: 7.5, Members: 400000},
		{ID: 5680, Title: "K-On!", Genres: []string{"Slice of Life", "Music"}, Type: "tv", Rating: 7.0, Members: 300000},
		{ID: 199, Title: "Sen to Chihiro no Kamikakushi", Genres: []string{"Adventure", "Drama"}, Type: "Movie", Rating: 8.9, Members: 600000},
	})
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Naruto", want: "naruto"},
		{in: "K-On!", want: "k on"},
		{in: "Code Geass: Hangyaku no Lelouch", want: "code geass hangyaku no lelouch"},
		{in: "  Spaced   Out  ", want: "spaced out"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanTitle(tt.in))
		})
	}
}

func TestStore_LookupByTitle(t *testing.T) {
	t.Parallel()

	s := sampleStore()

	t.Run("exact case-insensitive", func(t *testing.T) {
		t.Parallel()
		idx, ok := s.LookupByTitle("NARUTO")
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("exact beats substring", func(t *testing.T) {
		t.Parallel()
		// "on" appears inside earlier titles, but the exact pass on K-On!
		// wins before substring containment is consulted.
		idx, ok := s.LookupByTitle("K On")
		require.True(t, ok)
		assert.Equal(t, 2, idx)
	})

	t.Run("substring returns first catalog-order match", func(t *testing.T) {
		t.Parallel()
		idx, ok := s.LookupByTitle("aru")
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("punctuation normalized", func(t *testing.T) {
		t.Parallel()
		idx, ok := s.LookupByTitle("k-on")
		require.True(t, ok)
		assert.Equal(t, 2, idx)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, ok := s.LookupByTitle("cowboy bebop")
		assert.False(t, ok)
	})

	t.Run("blank query", func(t *testing.T) {
		t.Parallel()
		_, ok := s.LookupByTitle("   ")
		assert.False(t, ok)
	})
}

func TestStore_Types(t *testing.T) {
	t.Parallel()

	s := sampleStore()

	t.Run("types are lowercased", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"movie", "tv"}, s.Types())
	})

	t.Run("AllOfType filters in catalog order", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []int{0, 1, 2}, s.AllOfType("tv"))
		assert.Equal(t, []int{3}, s.AllOfType("Movie"))
	})

	t.Run("sentinel returns every index", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []int{0, 1, 2, 3}, s.AllOfType(TypeAll))
		assert.Equal(t, []int{0, 1, 2, 3}, s.AllOfType(""))
	})

	t.Run("HasType", func(t *testing.T) {
		t.Parallel()
		assert.True(t, s.HasType("tv"))
		assert.True(t, s.HasType(TypeAll))
		assert.False(t, s.HasType("podcast"))
	})
}

func TestStore_GenreVocabulary(t *testing.T) {
	t.Parallel()

	s := sampleStore()
	vocab := s.GenreVocabulary()
	assert.Equal(t, []string{"Action", "Adventure", "Drama", "Music", "Slice of Life", "Supernatural"}, vocab)
}

func TestNewStore_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []Item{
		{ID: 1, Title: "Naruto", Genres: []string{"Action"}, Type: "TV", Rating: 8.0, Members: 100},
		{ID: 2, Title: "Totoro", Genres: []string{"Adventure"}, Type: "", Rating: 8.4, Members: 200},
	}
	s := NewStore(in)

	// Normalization happens on the store's copy only.
	assert.Equal(t, "TV", in[0].Type)
	assert.Equal(t, "", in[1].Type)
	assert.Equal(t, "tv", s.Get(0).Type)
	assert.Equal(t, "unknown", s.Get(1).Type)
}

func TestStore_Empty(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	assert.Zero(t, s.Size())
	assert.Empty(t, s.AllOfType(TypeAll))
	_, ok := s.LookupByTitle("anything")
	assert.False(t, ok)
}
