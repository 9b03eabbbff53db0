// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Package recommend implements the recommendation engine: content
// similarity, collaborative filtering, a hybrid blend, and random sampling
// over an immutable catalog.
//
// The engine serves requests over shared immutable precomputed state. The
// content model is built at construction; the collaborative model is
// trained once via Train and published atomically, so in-flight reads never
// observe a partially trained model. Serving-time operations are pure reads
// and run fully in parallel.
package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hoshizora-labs/animerec/internal/catalog"
	"github.com/hoshizora-labs/animerec/internal/recommend/algorithms"
)

// Method tags attached to result entries.
const (
	methodContent    = "content"
	methodCollab     = "collaborative"
	methodHybrid     = "hybrid"
	methodRandom     = "random"
	methodPopularity = "popularity"
)

// Engine turns recommendation requests into ranked result lists.
type Engine struct {
	cfg      Config
	store    *catalog.Store
	content  *algorithms.ContentModel
	resolver *Resolver
	cache    *responseCache
	log      zerolog.Logger

	// model is the published collaborative model, nil until Train
	// completes. Guarded by modelMu; swapped wholesale on retrain.
	modelMu      sync.RWMutex
	model        *algorithms.Factorization
	modelVersion int

	// rngMu guards rng; math/rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// New constructs an Engine over the store: validates the configuration and
// builds the content feature vectors and similarity index. The
// collaborative model is trained separately via Train.
func New(store *catalog.Store, cfg Config, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	start := time.Now()
	content := algorithms.NewContentModel(store, algorithms.ContentWeights{
		Genre:      cfg.Features.Genre,
		Rating:     cfg.Features.Rating,
		Popularity: cfg.Features.Popularity,
	})
	log.Info().
		Int("items", store.Size()).
		Int("genres", len(store.GenreVocabulary())).
		Dur("build_time", time.Since(start)).
		Msg("Content similarity index built")

	return &Engine{
		cfg:      cfg,
		store:    store,
		content:  content,
		resolver: NewResolver(store),
		cache:    newResponseCache(cfg.CacheTTL),
		log:      log.With().Str("component", "engine").Logger(),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Train fits the collaborative model on the given ratings and publishes it.
// Rating item IDs are dataset IDs; ratings for items absent from the
// catalog are dropped. Training replaces any previously published model
// wholesale, bumping the model version.
func (e *Engine) Train(ctx context.Context, ratings []catalog.Rating) error {
	idByItem := make(map[int]int, e.store.Size())
	for i := 0; i < e.store.Size(); i++ {
		idByItem[e.store.Get(i).ID] = i
	}

	triples := make([]algorithms.RatingTriple, 0, len(ratings))
	for _, r := range ratings {
		idx, ok := idByItem[r.ItemID]
		if !ok {
			continue
		}
		triples = append(triples, algorithms.RatingTriple{User: r.UserID, Item: idx, Score: r.Score})
	}
	if len(triples) == 0 {
		return fmt.Errorf("no usable training ratings (of %d rows)", len(ratings))
	}

	model := algorithms.NewFactorization(e.store.Size(), algorithms.FactorizationParams{
		Factors:        e.cfg.Factorization.Factors,
		LearningRate:   e.cfg.Factorization.LearningRate,
		Regularization: e.cfg.Factorization.Regularization,
		Epochs:         e.cfg.Factorization.Epochs,
		RatingMin:      RatingMin,
		RatingMax:      RatingMax,
		Seed:           e.cfg.Seed,
	})

	start := time.Now()
	if err := model.Train(ctx, triples); err != nil {
		return fmt.Errorf("train collaborative model: %w", err)
	}

	e.modelMu.Lock()
	e.model = model
	e.modelVersion++
	version := e.modelVersion
	e.modelMu.Unlock()

	// Cached responses were computed against the previous model.
	e.cache.flush()

	e.log.Info().
		Int("ratings", len(triples)).
		Int("model_version", version).
		Dur("train_time", time.Since(start)).
		Msg("Collaborative model trained and published")

	return nil
}

// publishedModel returns the current model and its version, or nil when
// training has not completed yet.
func (e *Engine) publishedModel() (*algorithms.Factorization, int) {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.model, e.modelVersion
}

// Trained reports whether a collaborative model has been published.
func (e *Engine) Trained() bool {
	m, _ := e.publishedModel()
	return m != nil
}

// Recommend serves a recommendation request. Validation failures return
// typed errors; an empty catalog or zero eligible items after filtering is
// a legitimate empty result, not an error.
func (e *Engine) Recommend(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	count, err := clampCount(req.ResultCount())
	if err != nil {
		return Response{}, err
	}
	typeTag, err := e.resolver.ValidateType(req.TypeFilter())
	if err != nil {
		return Response{}, err
	}

	meta := ResponseMetadata{
		RequestID: uuid.NewString(),
		Strategy:  req.Strategy().String(),
		Count:     count,
		Type:      typeTag,
	}

	cacheKey := e.cache.key(req, count, typeTag)
	if cached, ok := e.cache.get(cacheKey); ok {
		cached.Metadata.RequestID = meta.RequestID
		cached.Metadata.CacheHit = true
		cached.Metadata.LatencyMS = time.Since(start).Milliseconds()
		cached.Metadata.Timestamp = time.Now().UTC()
		return cached, nil
	}

	var items []ScoredItem
	switch r := req.(type) {
	case ContentRequest:
		items, err = e.recommendContent(r, count, typeTag)
	case CollaborativeRequest:
		items, err = e.recommendCollaborative(r, count, typeTag, &meta)
	case HybridRequest:
		items, err = e.recommendHybrid(r, count, typeTag, &meta)
	case RandomRequest:
		items = e.recommendRandom(count, typeTag)
	default:
		err = fmt.Errorf("%w: unsupported request type %T", ErrInvalidArgument, req)
	}
	if err != nil {
		return Response{}, err
	}

	meta.LatencyMS = time.Since(start).Milliseconds()
	meta.Timestamp = time.Now().UTC()

	resp := Response{Items: items, Metadata: meta}
	e.cache.put(cacheKey, resp)

	e.log.Debug().
		Str("request_id", meta.RequestID).
		Str("strategy", meta.Strategy).
		Int("results", len(items)).
		Int64("latency_ms", meta.LatencyMS).
		Msg("Request served")

	return resp, nil
}

// recommendContent ranks items by feature similarity to the resolved title.
// Candidates are over-fetched, same-franchise entries are dropped, then a
// genre-diversity pass picks the final n.
func (e *Engine) recommendContent(req ContentRequest, count int, typeTag string) ([]ScoredItem, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if e.store.Size() < 2 {
		return []ScoredItem{}, nil
	}

	ref, err := e.resolver.ResolveTitle(req.Title)
	if err != nil {
		return nil, err
	}

	pool := count * candidatePoolMultiple
	allowed := e.resolver.typeCandidates(typeTag)

	// Fetch the full ranking so type and series filtering can still fill
	// the candidate pool; TopSimilar sorts all rows either way.
	similar, err := e.content.TopSimilar(ref, e.store.Size()-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}

	refTitle := e.store.Get(ref).Title
	candidates := make([]algorithms.SimilarItem, 0, pool)
	for _, s := range similar {
		if allowed != nil {
			if _, ok := allowed[s.Index]; !ok {
				continue
			}
		}
		if sameSeries(refTitle, e.store.Get(s.Index).Title) {
			continue
		}
		candidates = append(candidates, s)
		if len(candidates) == pool {
			break
		}
	}

	selected := e.diversifyByGenre(ref, candidates, count)

	items := make([]ScoredItem, 0, len(selected))
	for _, s := range selected {
		items = append(items, ScoredItem{
			Item:   e.store.Get(s.Index),
			Score:  roundTo(s.Similarity, 4),
			Scores: map[string]float64{"similarity": roundTo(s.Similarity, 4)},
			Method: methodContent,
		})
	}
	return items, nil
}

// diversifyByGenre selects n candidates from an over-fetched similarity
// pool. The first half of the slots prefers candidates introducing a genre
// not yet covered by the selection, the rest fill in by similarity. Within
// each pass candidate order (similarity descending) is preserved.
func (e *Engine) diversifyByGenre(ref int, candidates []algorithms.SimilarItem, n int) []algorithms.SimilarItem {
	if len(candidates) <= n {
		return candidates
	}

	covered := make(map[string]struct{})
	for _, g := range e.store.Get(ref).Genres {
		covered[g] = struct{}{}
	}

	selected := make([]algorithms.SimilarItem, 0, n)
	used := make(map[int]struct{}, n)

	for _, c := range candidates {
		if len(selected) >= n/2 {
			break
		}
		fresh := false
		for _, g := range e.store.Get(c.Index).Genres {
			if _, ok := covered[g]; !ok {
				fresh = true
				break
			}
		}
		if !fresh {
			continue
		}
		selected = append(selected, c)
		used[c.Index] = struct{}{}
		for _, g := range e.store.Get(c.Index).Genres {
			covered[g] = struct{}{}
		}
	}

	for _, c := range candidates {
		if len(selected) == n {
			break
		}
		if _, ok := used[c.Index]; ok {
			continue
		}
		selected = append(selected, c)
		used[c.Index] = struct{}{}
	}

	sort.SliceStable(selected, func(a, b int) bool {
		return selected[a].Similarity > selected[b].Similarity
	})
	return selected
}

// recommendCollaborative ranks items by predicted rating for the user.
// Unknown users degrade to a popularity ranking unless the engine is
// configured to require known users.
func (e *Engine) recommendCollaborative(req CollaborativeRequest, count int, typeTag string, meta *ResponseMetadata) ([]ScoredItem, error) {
	if e.store.Size() < 2 {
		return []ScoredItem{}, nil
	}

	model, version := e.publishedModel()
	if model == nil {
		return nil, ErrNotTrained
	}
	meta.ModelVersion = version

	if !model.KnowsUser(req.UserID) {
		if e.cfg.RequireKnownUser {
			return nil, fmt.Errorf("%w: user %d", ErrUnknownUser, req.UserID)
		}
		return e.popularityFallback(count, typeTag), nil
	}

	var candidates []int
	if typeTag != catalog.TypeAll {
		candidates = e.store.AllOfType(typeTag)
	}

	preds, err := model.TopForUser(req.UserID, count, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}

	items := make([]ScoredItem, 0, len(preds))
	for _, p := range preds {
		items = append(items, ScoredItem{
			Item:   e.store.Get(p.Index),
			Score:  roundTo(p.Score, 2),
			Scores: map[string]float64{"predicted_rating": roundTo(p.Score, 2)},
			Method: methodCollab,
		})
	}
	return items, nil
}

// popularityFallback ranks by member count, the cold-start answer for users
// with no rating history.
func (e *Engine) popularityFallback(count int, typeTag string) []ScoredItem {
	pool := e.store.AllOfType(typeTag)
	sorted := make([]int, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(a, b int) bool {
		return e.store.Get(sorted[a]).Members > e.store.Get(sorted[b]).Members
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	items := make([]ScoredItem, 0, count)
	for _, idx := range sorted[:count] {
		item := e.store.Get(idx)
		items = append(items, ScoredItem{
			Item:   item,
			Score:  roundTo(item.Rating, 2),
			Scores: map[string]float64{"members": float64(item.Members)},
			Method: methodPopularity,
		})
	}
	return items
}

// recommendHybrid blends content similarity for the title with
// collaborative predictions for the user via percentile-rank fusion.
func (e *Engine) recommendHybrid(req HybridRequest, count int, typeTag string, meta *ResponseMetadata) ([]ScoredItem, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if e.store.Size() < 2 {
		return []ScoredItem{}, nil
	}

	model, version := e.publishedModel()
	if model == nil {
		return nil, ErrNotTrained
	}
	meta.ModelVersion = version

	ref, err := e.resolver.ResolveTitle(req.Title)
	if err != nil {
		return nil, err
	}

	if e.cfg.RequireKnownUser && !model.KnowsUser(req.UserID) {
		return nil, fmt.Errorf("%w: user %d", ErrUnknownUser, req.UserID)
	}

	pool := count * candidatePoolMultiple
	allowed := e.resolver.typeCandidates(typeTag)

	similar, err := e.content.TopSimilar(ref, e.store.Size()-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}

	contentScores := make([]sourceScore, 0, pool)
	for _, s := range similar {
		if allowed != nil {
			if _, ok := allowed[s.Index]; !ok {
				continue
			}
		}
		contentScores = append(contentScores, sourceScore{index: s.Index, score: s.Similarity})
		if len(contentScores) == pool {
			break
		}
	}

	var candidates []int
	if allowed != nil {
		candidates = e.store.AllOfType(typeTag)
	}
	preds, err := model.TopForUser(req.UserID, pool, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	collabScores := make([]sourceScore, 0, len(preds))
	for _, p := range preds {
		if p.Index == ref {
			continue
		}
		collabScores = append(collabScores, sourceScore{index: p.Index, score: p.Score})
	}

	combined := blend(contentScores, collabScores, e.cfg.Hybrid)

	items := make([]ScoredItem, 0, count)
	for _, b := range combined {
		if len(items) == count {
			break
		}
		if b.index == ref {
			continue
		}

		scores := map[string]float64{"combined": roundTo(b.combined, 2)}
		method := methodHybrid
		switch {
		case b.content >= 0 && b.collab >= 0:
			scores["similarity"] = roundTo(b.rawContent, 4)
			scores["predicted_rating"] = roundTo(b.rawCollab, 2)
		case b.content >= 0:
			scores["similarity"] = roundTo(b.rawContent, 4)
			method = methodContent
		case b.collab >= 0:
			scores["predicted_rating"] = roundTo(b.rawCollab, 2)
			method = methodCollab
		}

		items = append(items, ScoredItem{
			Item:   e.store.Get(b.index),
			Score:  roundTo(b.combined, 2),
			Scores: scores,
			Method: method,
		})
	}
	return items, nil
}

// recommendRandom samples distinct catalog items uniformly.
func (e *Engine) recommendRandom(count int, typeTag string) []ScoredItem {
	e.rngMu.Lock()
	idxs := e.resolver.SampleRandom(e.rng, count, typeTag)
	e.rngMu.Unlock()

	items := make([]ScoredItem, 0, len(idxs))
	for _, i := range idxs {
		items = append(items, ScoredItem{
			Item:   e.store.Get(i),
			Method: methodRandom,
		})
	}
	return items
}

// roundTo rounds v to the given number of decimal places for display.
// Ranking always happens on full precision before this is applied.
func roundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
