// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts recommendation requests by strategy and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animerec",
			Name:      "requests_total",
			Help:      "Recommendation requests by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)

	// RequestDuration observes engine-side request latency by strategy.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "animerec",
			Name:      "request_duration_seconds",
			Help:      "Recommendation request latency by strategy.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// ResultsReturned observes result list sizes by strategy.
	ResultsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "animerec",
			Name:      "results_returned",
			Help:      "Number of items returned per request by strategy.",
			Buckets:   []float64{0, 1, 2, 4, 8, 12, 16, 20},
		},
		[]string{"strategy"},
	)

	// CacheHits counts response cache hits by strategy.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animerec",
			Name:      "cache_hits_total",
			Help:      "Response cache hits by strategy.",
		},
		[]string{"strategy"},
	)

	// TrainingDuration observes collaborative model training time.
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "animerec",
			Name:      "training_duration_seconds",
			Help:      "Collaborative model training time.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// CatalogItems tracks the loaded catalog size.
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "animerec",
			Name:      "catalog_items",
			Help:      "Number of items in the loaded catalog.",
		},
	)

	// TrainingRatings tracks the number of rating rows used for training.
	TrainingRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "animerec",
			Name:      "training_ratings",
			Help:      "Number of rating rows used for the published model.",
		},
	)
)
