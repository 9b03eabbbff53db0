// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/hoshizora-labs/animerec/internal/catalog"
)

// Resolver maps free-text queries to catalog indexes and applies post-hoc
// type filtering and random sampling. It is stateless per request.
type Resolver struct {
	store *catalog.Store
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store *catalog.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveTitle maps a free-text title to a catalog index. Exact
// case-insensitive match on the cleaned title first, then first substring
// containment in catalog order.
func (r *Resolver) ResolveTitle(query string) (int, error) {
	if strings.TrimSpace(query) == "" {
		return 0, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	idx, ok := r.store.LookupByTitle(query)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, query)
	}
	return idx, nil
}

// ValidateType checks a type filter against the known catalog type tags.
// Empty means all.
func (r *Resolver) ValidateType(typeTag string) (string, error) {
	if typeTag == "" {
		return catalog.TypeAll, nil
	}
	typeTag = strings.ToLower(typeTag)
	if !r.store.HasType(typeTag) {
		return "", fmt.Errorf("%w: unknown type %q, known types: %s",
			ErrInvalidArgument, typeTag, strings.Join(r.store.Types(), ", "))
	}
	return typeTag, nil
}

// FilterByType drops result entries whose item type does not match. The
// sentinel type keeps everything.
func (r *Resolver) FilterByType(items []ScoredItem, typeTag string) []ScoredItem {
	if typeTag == "" || typeTag == catalog.TypeAll {
		return items
	}
	filtered := items[:0:0]
	for _, it := range items {
		if it.Item.Type == typeTag {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// typeCandidates returns a set of catalog indexes matching the type filter,
// for pre-filtering candidate pools. Nil means no restriction.
func (r *Resolver) typeCandidates(typeTag string) map[int]struct{} {
	if typeTag == "" || typeTag == catalog.TypeAll {
		return nil
	}
	idxs := r.store.AllOfType(typeTag)
	set := make(map[int]struct{}, len(idxs))
	for _, i := range idxs {
		set[i] = struct{}{}
	}
	return set
}

// SampleRandom draws up to n distinct catalog indexes uniformly without
// replacement from the (optionally type-filtered) catalog. Fewer than n
// matching items yields all of them. The caller supplies the RNG so
// sampling stays reproducible under a fixed seed.
func (r *Resolver) SampleRandom(rng *rand.Rand, n int, typeTag string) []int {
	pool := r.store.AllOfType(typeTag)
	if len(pool) == 0 {
		return []int{}
	}
	if n >= len(pool) {
		out := make([]int, len(pool))
		copy(out, pool)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	// Partial Fisher-Yates over a copy of the pool.
	work := make([]int, len(pool))
	copy(work, pool)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:n]
}
