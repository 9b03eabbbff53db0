// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package api

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/hoshizora-labs/animerec/internal/recommend"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	// Code is a stable machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// statusForError maps engine errors onto HTTP status codes and stable codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, recommend.ErrNotFound):
		return http.StatusNotFound, "title_not_found"
	case errors.Is(err, recommend.ErrUnknownUser):
		return http.StatusNotFound, "unknown_user"
	case errors.Is(err, recommend.ErrNotTrained):
		return http.StatusServiceUnavailable, "model_not_ready"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError writes the JSON error envelope for an engine error. Internal
// errors hide the underlying message from clients.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusForError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: msg}})
}

// writeJSON writes a success payload.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
