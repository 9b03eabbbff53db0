// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoshizora-labs/animerec/internal/metrics"
	"github.com/hoshizora-labs/animerec/internal/recommend"
	"github.com/hoshizora-labs/animerec/internal/validation"
)

// Recommender is the engine surface the HTTP layer consumes.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (recommend.Response, error)
	Trained() bool
}

// Handlers holds the HTTP handlers over the engine.
type Handlers struct {
	engine  Recommender
	log     zerolog.Logger
	started time.Time
	version string
}

// NewHandlers creates the handler set.
func NewHandlers(engine Recommender, version string, log zerolog.Logger) *Handlers {
	return &Handlers{
		engine:  engine,
		log:     log.With().Str("component", "api").Logger(),
		started: time.Now(),
		version: version,
	}
}

// healthResponse is the GET /health payload.
type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ModelReady    bool   `json:"model_ready"`
}

// Health reports liveness and whether the collaborative model is published.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		ModelReady:    h.engine.Trained(),
	})
}

// contentParams are the parsed query parameters of the content endpoint.
// The engine re-validates, but rejecting malformed input here keeps bad
// requests out of the engine's logs.
type contentParams struct {
	Title string `validate:"required"`
	Count int    `validate:"min=0,max=20"`
}

type collaborativeParams struct {
	UserID int `validate:"required,min=1"`
	Count  int `validate:"min=0,max=20"`
}

type hybridParams struct {
	Title  string `validate:"required"`
	UserID int    `validate:"required,min=1"`
	Count  int    `validate:"min=0,max=20"`
}

// RecommendContent serves GET /api/v1/recommend/content.
func (h *Handlers) RecommendContent(w http.ResponseWriter, r *http.Request) {
	count, err := queryCount(r)
	if err != nil {
		writeError(w, err)
		return
	}
	params := contentParams{
		Title: r.URL.Query().Get("title"),
		Count: count,
	}
	if err := validation.ValidateStruct(params); err != nil {
		writeError(w, fmt.Errorf("%w: %v", recommend.ErrInvalidArgument, err))
		return
	}
	h.serve(w, r, recommend.ContentRequest{
		Title: params.Title,
		Count: params.Count,
		Type:  r.URL.Query().Get("type"),
	})
}

// RecommendCollaborative serves GET /api/v1/recommend/collaborative.
func (h *Handlers) RecommendCollaborative(w http.ResponseWriter, r *http.Request) {
	count, err := queryCount(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := queryUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	params := collaborativeParams{UserID: userID, Count: count}
	if err := validation.ValidateStruct(params); err != nil {
		writeError(w, fmt.Errorf("%w: %v", recommend.ErrInvalidArgument, err))
		return
	}
	h.serve(w, r, recommend.CollaborativeRequest{
		UserID: params.UserID,
		Count:  params.Count,
		Type:   r.URL.Query().Get("type"),
	})
}

// RecommendHybrid serves GET /api/v1/recommend/hybrid.
func (h *Handlers) RecommendHybrid(w http.ResponseWriter, r *http.Request) {
	count, err := queryCount(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := queryUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	params := hybridParams{
		Title:  r.URL.Query().Get("title"),
		UserID: userID,
		Count:  count,
	}
	if err := validation.ValidateStruct(params); err != nil {
		writeError(w, fmt.Errorf("%w: %v", recommend.ErrInvalidArgument, err))
		return
	}
	h.serve(w, r, recommend.HybridRequest{
		Title:  params.Title,
		UserID: params.UserID,
		Count:  params.Count,
		Type:   r.URL.Query().Get("type"),
	})
}

// RecommendRandom serves GET /api/v1/recommend/random.
func (h *Handlers) RecommendRandom(w http.ResponseWriter, r *http.Request) {
	count, err := queryCount(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.serve(w, r, recommend.RandomRequest{
		Count: count,
		Type:  r.URL.Query().Get("type"),
	})
}

// serve runs a request through the engine and writes the response,
// recording metrics either way.
func (h *Handlers) serve(w http.ResponseWriter, r *http.Request, req recommend.Request) {
	strategy := req.Strategy().String()
	start := time.Now()

	resp, err := h.engine.Recommend(r.Context(), req)
	metrics.RequestDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())

	if err != nil {
		status, code := statusForError(err)
		metrics.RequestsTotal.WithLabelValues(strategy, code).Inc()

		evt := h.log.Warn()
		if status >= http.StatusInternalServerError {
			evt = h.log.Error()
		}
		evt.Err(err).
			Str("strategy", strategy).
			Str("path", r.URL.Path).
			Msg("Recommendation request failed")

		writeError(w, err)
		return
	}

	metrics.RequestsTotal.WithLabelValues(strategy, "ok").Inc()
	metrics.ResultsReturned.WithLabelValues(strategy).Observe(float64(len(resp.Items)))
	if resp.Metadata.CacheHit {
		metrics.CacheHits.WithLabelValues(strategy).Inc()
	}

	writeJSON(w, http.StatusOK, resp)
}

// queryCount parses the count query parameter. Absent means zero, which the
// engine maps to its default.
func queryCount(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: count must be an integer, got %q", recommend.ErrInvalidArgument, raw)
	}
	return n, nil
}

// queryUserID parses the required user_id query parameter.
func queryUserID(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return 0, fmt.Errorf("%w: user_id is required", recommend.ErrInvalidArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: user_id must be an integer, got %q", recommend.ErrInvalidArgument, raw)
	}
	return id, nil
}
