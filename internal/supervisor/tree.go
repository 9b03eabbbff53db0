// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Package supervisor wraps suture process supervision for the service. A
// crashed HTTP listener is restarted with backoff instead of taking the
// process down; only sustained failure exits.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Config holds supervisor backoff settings.
type Config struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	// Default: 30.
	FailureDecay float64

	// FailureBackoff is how long to wait when the threshold is exceeded.
	// Default: 15s.
	FailureBackoff time.Duration
}

// DefaultConfig returns suture's documented production defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
	}
}

// Tree is the root supervisor for the service's long-running components.
type Tree struct {
	root *suture.Supervisor
}

// New creates a supervisor tree logging restart events through the given
// slog logger.
func New(name string, logger *slog.Logger, cfg Config) *Tree {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5.0
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = 30.0
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = 15 * time.Second
	}

	root := suture.New(name, suture.Spec{
		EventHook:        (&sutureslog.Handler{Logger: logger}).MustHook(),
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
	})

	return &Tree{root: root}
}

// Add registers a service with the root supervisor. Must be called before
// Serve.
func (t *Tree) Add(svc suture.Service) suture.ServiceToken {
	return t.root.Add(svc)
}

// Serve runs the tree until ctx is cancelled, blocking the caller.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}
