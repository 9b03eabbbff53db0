// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import "errors"

// Error taxonomy for the recommendation engine. Callers distinguish these
// with errors.Is; handlers map them onto HTTP status codes.
var (
	// ErrNotFound indicates a title with no exact or substring match
	// in the catalog.
	ErrNotFound = errors.New("title not found in catalog")

	// ErrInvalidIndex indicates an out-of-range catalog index reached
	// similarity or prediction code. This is a programming error.
	ErrInvalidIndex = errors.New("catalog index out of range")

	// ErrUnknownUser indicates a user absent from the training data when the
	// engine is configured to require known users. With the default
	// configuration, unknown users degrade to bias-only cold-start
	// predictions instead of erroring.
	ErrUnknownUser = errors.New("user not present in training data")

	// ErrInvalidArgument indicates a missing required parameter for the
	// chosen strategy, or a count/type outside the allowed range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotTrained indicates a collaborative or hybrid request arrived
	// before the latent-factor model was trained and published.
	ErrNotTrained = errors.New("collaborative model not trained")
)
