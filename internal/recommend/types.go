// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import (
	"time"

	"github.com/hoshizora-labs/animerec/internal/catalog"
)

// Strategy identifies a recommendation strategy.
type Strategy int

const (
	// StrategyContent ranks items by feature similarity to a reference title.
	StrategyContent Strategy = iota
	// StrategyCollaborative ranks items by predicted rating for a user.
	StrategyCollaborative
	// StrategyHybrid blends content and collaborative scores.
	StrategyHybrid
	// StrategyRandom samples items uniformly without replacement.
	StrategyRandom
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyContent:
		return "content"
	case StrategyCollaborative:
		return "collaborative"
	case StrategyHybrid:
		return "hybrid"
	case StrategyRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "content":
		return StrategyContent, true
	case "collaborative", "collab":
		return StrategyCollaborative, true
	case "hybrid":
		return StrategyHybrid, true
	case "random":
		return StrategyRandom, true
	default:
		return 0, false
	}
}

// Request is the closed set of recommendation request variants. Each variant
// carries only the fields its strategy requires, so a collaborative request
// cannot arrive without a user and a content request cannot arrive without a
// title.
type Request interface {
	// Strategy returns the strategy this request selects.
	Strategy() Strategy

	// ResultCount returns the requested result count before clamping.
	ResultCount() int

	// TypeFilter returns the requested type tag ("" means all).
	TypeFilter() string
}

// ContentRequest asks for items similar to a reference title.
type ContentRequest struct {
	// Title is the free-text query resolved against the catalog.
	Title string

	// Count is the requested number of results.
	Count int

	// Type optionally restricts results to one catalog type tag.
	Type string
}

// Strategy implements Request.
func (ContentRequest) Strategy() Strategy { return StrategyContent }

// ResultCount implements Request.
func (r ContentRequest) ResultCount() int { return r.Count }

// TypeFilter implements Request.
func (r ContentRequest) TypeFilter() string { return r.Type }

// CollaborativeRequest asks for the top predicted items for a user.
type CollaborativeRequest struct {
	// UserID is the numeric user identifier from the ratings data.
	UserID int

	// Count is the requested number of results.
	Count int

	// Type optionally restricts results to one catalog type tag.
	Type string
}

// Strategy implements Request.
func (CollaborativeRequest) Strategy() Strategy { return StrategyCollaborative }

// ResultCount implements Request.
func (r CollaborativeRequest) ResultCount() int { return r.Count }

// TypeFilter implements Request.
func (r CollaborativeRequest) TypeFilter() string { return r.Type }

// HybridRequest blends content similarity for a title with collaborative
// predictions for a user.
type HybridRequest struct {
	// Title is the free-text query resolved against the catalog.
	Title string

	// UserID is the numeric user identifier from the ratings data.
	UserID int

	// Count is the requested number of results.
	Count int

	// Type optionally restricts results to one catalog type tag.
	Type string
}

// Strategy implements Request.
func (HybridRequest) Strategy() Strategy { return StrategyHybrid }

// ResultCount implements Request.
func (r HybridRequest) ResultCount() int { return r.Count }

// TypeFilter implements Request.
func (r HybridRequest) TypeFilter() string { return r.Type }

// RandomRequest samples catalog items uniformly without replacement.
type RandomRequest struct {
	// Count is the requested number of results.
	Count int

	// Type optionally restricts the sampling pool to one catalog type tag.
	Type string
}

// Strategy implements Request.
func (RandomRequest) Strategy() Strategy { return StrategyRandom }

// ResultCount implements Request.
func (r RandomRequest) ResultCount() int { return r.Count }

// TypeFilter implements Request.
func (r RandomRequest) TypeFilter() string { return r.Type }

// Ensure all variants implement the interface.
var (
	_ Request = ContentRequest{}
	_ Request = CollaborativeRequest{}
	_ Request = HybridRequest{}
	_ Request = RandomRequest{}
)

// ScoredItem is one entry of a recommendation result.
type ScoredItem struct {
	// Item is the recommended catalog entry.
	Item catalog.Item `json:"item"`

	// Score is the primary ranking score. Its scale depends on the method:
	// cosine similarity for content, predicted rating for collaborative,
	// blended percentile for hybrid. Random results carry no score.
	Score float64 `json:"score"`

	// Scores breaks the primary score down by source, when available.
	Scores map[string]float64 `json:"scores,omitempty"`

	// Method names the strategy that produced this entry. Hybrid entries
	// scored by only one source carry that source's name instead.
	Method string `json:"method"`
}

// Response is a recommendation result with request metadata.
type Response struct {
	// Items is the ordered recommendation list.
	Items []ScoredItem `json:"items"`

	// Metadata carries timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata carries timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Strategy is the strategy used.
	Strategy string `json:"strategy"`

	// Count is the effective (clamped) result count.
	Count int `json:"count"`

	// Type is the effective type filter.
	Type string `json:"type"`

	// LatencyMS is the engine-side latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates the response was served from the response cache.
	CacheHit bool `json:"cache_hit"`

	// ModelVersion is the collaborative model version used, zero when the
	// strategy did not consult the model.
	ModelVersion int `json:"model_version,omitempty"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}
