// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package algorithms

import (
	"fmt"
	"sort"

	"github.com/hoshizora-labs/animerec/internal/catalog"
)

// ContentWeights scales the three feature groups of the content vectors.
type ContentWeights struct {
	Genre      float64
	Rating     float64
	Popularity float64
}

// ContentModel holds precomputed feature vectors and the symmetric pairwise
// similarity matrix for the catalog. It is immutable after construction.
type ContentModel struct {
	size int

	// features[i] is the weighted feature vector for catalog index i:
	// a multi-hot genre block followed by the normalized rating and the
	// normalized member count.
	features [][]float64

	// sim[i][j] is the cosine similarity of items i and j. sim[i][i] == 1
	// for items with any nonzero feature.
	sim [][]float64
}

// SimilarItem pairs a catalog index with its similarity to a reference item.
type SimilarItem struct {
	Index      int
	Similarity float64
}

// NewContentModel builds feature vectors and the full similarity matrix for
// the store. The matrix costs O(n^2) space, which the catalog size (low
// five digits) keeps well under typical memory budgets.
func NewContentModel(store *catalog.Store, w ContentWeights) *ContentModel {
	n := store.Size()
	m := &ContentModel{size: n}
	if n == 0 {
		return m
	}

	vocab := store.GenreVocabulary()
	genreIdx := make(map[string]int, len(vocab))
	for i, g := range vocab {
		genreIdx[g] = i
	}

	ratings := make([]float64, n)
	members := make([]float64, n)
	for i := 0; i < n; i++ {
		item := store.Get(i)
		ratings[i] = item.Rating
		members[i] = float64(item.Members)
	}
	ratings = minMaxNormalize(ratings)
	members = minMaxNormalize(members)

	dim := len(vocab) + 2
	m.features = make([][]float64, n)
	for i := 0; i < n; i++ {
		vec := make([]float64, dim)
		for _, g := range store.Get(i).Genres {
			if j, ok := genreIdx[g]; ok {
				vec[j] = w.Genre
			}
		}
		vec[len(vocab)] = w.Rating * ratings[i]
		vec[len(vocab)+1] = w.Popularity * members[i]
		m.features[i] = vec
	}

	m.sim = make([][]float64, n)
	for i := 0; i < n; i++ {
		m.sim[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		m.sim[i][i] = cosine(m.features[i], m.features[i])
		for j := i + 1; j < n; j++ {
			s := cosine(m.features[i], m.features[j])
			m.sim[i][j] = s
			m.sim[j][i] = s
		}
	}

	return m
}

// Size returns the number of items the model covers.
func (m *ContentModel) Size() int {
	return m.size
}

// Similarity returns the cosine similarity of two catalog indexes.
func (m *ContentModel) Similarity(i, j int) (float64, error) {
	if i < 0 || i >= m.size || j < 0 || j >= m.size {
		return 0, fmt.Errorf("similarity index (%d, %d) out of range [0, %d)", i, j, m.size)
	}
	return m.sim[i][j], nil
}

// TopSimilar returns up to n items most similar to the reference index,
// excluding the reference itself. Ordering is similarity descending with
// catalog order breaking ties, so results are stable across calls. Fewer
// than n items are returned when the catalog is small; a catalog of one
// item yields an empty list.
func (m *ContentModel) TopSimilar(ref, n int) ([]SimilarItem, error) {
	if ref < 0 || ref >= m.size {
		return nil, fmt.Errorf("reference index %d out of range [0, %d)", ref, m.size)
	}
	if n <= 0 || m.size < 2 {
		return []SimilarItem{}, nil
	}

	candidates := make([]SimilarItem, 0, m.size-1)
	for i := 0; i < m.size; i++ {
		if i == ref {
			continue
		}
		candidates = append(candidates, SimilarItem{Index: i, Similarity: m.sim[ref][i]})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Similarity > candidates[b].Similarity
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n], nil
}
