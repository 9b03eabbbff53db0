// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Package catalog holds the immutable anime catalog and its lookup indexes.
//
// The catalog is loaded once at startup and never mutated afterward, so all
// reads are safe for concurrent use without locking.
package catalog

import (
	"sort"
	"strings"
)

// TypeAll is the sentinel type tag matching every catalog entry.
const TypeAll = "all"

// Item is a single catalog entry. Title is the natural key.
type Item struct {
	// ID is the source dataset identifier (anime_id).
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres is the ordered list of genre tags.
	Genres []string `json:"genres"`

	// Type is the lowercase format tag (tv, movie, ova, ona, special, music).
	Type string `json:"type"`

	// Rating is the community quality rating in [0, 10]. Entries missing a
	// rating in the source data carry the catalog median.
	Rating float64 `json:"rating"`

	// Members is the community member count used as the popularity signal.
	Members int `json:"members"`
}

// Store is the immutable item table with title and type indexes.
type Store struct {
	items []Item

	// cleanTitles[i] is CleanTitle(items[i].Title), precomputed for lookup.
	cleanTitles []string

	// byType maps a lowercase type tag to item indexes in catalog order.
	byType map[string][]int

	// genres is the sorted global genre vocabulary.
	genres []string
}

// NewStore builds a Store over the given items. Item order is preserved and
// becomes the canonical catalog order used for tie-breaking everywhere.
// Items are copied, so the caller's slice stays untouched by normalization.
func NewStore(items []Item) *Store {
	owned := make([]Item, len(items))
	copy(owned, items)

	s := &Store{
		items:       owned,
		cleanTitles: make([]string, len(owned)),
		byType:      make(map[string][]int),
	}

	vocab := make(map[string]struct{})
	for i := range owned {
		s.cleanTitles[i] = CleanTitle(owned[i].Title)

		t := strings.ToLower(owned[i].Type)
		if t == "" {
			t = "unknown"
		}
		owned[i].Type = t
		s.byType[t] = append(s.byType[t], i)

		for _, g := range owned[i].Genres {
			vocab[g] = struct{}{}
		}
	}

	s.genres = make([]string, 0, len(vocab))
	for g := range vocab {
		s.genres = append(s.genres, g)
	}
	sort.Strings(s.genres)

	return s
}

// Size returns the number of catalog items.
func (s *Store) Size() int {
	return len(s.items)
}

// Get returns the item at the given catalog index.
// The index must be in range; callers validate first via Size.
func (s *Store) Get(i int) Item {
	return s.items[i]
}

// LookupByTitle resolves a free-text title to a catalog index.
//
// Matching is layered: exact case-insensitive equality on the cleaned title
// first, then case-insensitive substring containment. The substring pass
// returns the first match in catalog order. No fuzzy matching.
func (s *Store) LookupByTitle(query string) (int, bool) {
	cleaned := CleanTitle(query)
	if cleaned == "" {
		return 0, false
	}

	for i, t := range s.cleanTitles {
		if t == cleaned {
			return i, true
		}
	}

	for i, t := range s.cleanTitles {
		if strings.Contains(t, cleaned) {
			return i, true
		}
	}

	return 0, false
}

// AllOfType returns the indexes of items with the given type tag, in catalog
// order. TypeAll returns every index.
func (s *Store) AllOfType(typeTag string) []int {
	typeTag = strings.ToLower(typeTag)
	if typeTag == "" || typeTag == TypeAll {
		all := make([]int, len(s.items))
		for i := range all {
			all[i] = i
		}
		return all
	}
	return s.byType[typeTag]
}

// HasType reports whether the type tag is known to the catalog.
// TypeAll is always known.
func (s *Store) HasType(typeTag string) bool {
	typeTag = strings.ToLower(typeTag)
	if typeTag == TypeAll {
		return true
	}
	_, ok := s.byType[typeTag]
	return ok
}

// Types returns the known type tags in sorted order.
func (s *Store) Types() []string {
	types := make([]string, 0, len(s.byType))
	for t := range s.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenreVocabulary returns the sorted global genre vocabulary.
func (s *Store) GenreVocabulary() []string {
	return s.genres
}

// CleanTitle normalizes a title for comparison: lowercase, colons and
// exclamation marks stripped, dashes replaced by spaces, whitespace trimmed.
func CleanTitle(title string) string {
	t := strings.ToLower(title)
	t = strings.ReplaceAll(t, ":", "")
	t = strings.ReplaceAll(t, "-", " ")
	t = strings.ReplaceAll(t, "!", "")
	return strings.Join(strings.Fields(t), " ")
}
