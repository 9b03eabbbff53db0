// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton instance. The API layer validates
// parsed request parameter structs with it before handing them to the
// engine.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// instance returns the shared validator. validator.Validate caches struct
// metadata, so a single instance serves all goroutines.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError describes a single failed field.
type FieldError struct {
	// Field is the struct field name.
	Field string

	// Constraint is the violated validation tag.
	Constraint string

	// Param is the tag parameter, if any.
	Param string
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s violates %s=%s", e.Field, e.Constraint, e.Param)
	}
	return fmt.Sprintf("%s violates %s", e.Field, e.Constraint)
}

// Error aggregates the field errors of one validation pass.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateStruct validates s against its `validate` tags. Returns *Error on
// failure, nil when the struct passes.
func ValidateStruct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate struct: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:      fe.Field(),
			Constraint: fe.Tag(),
			Param:      fe.Param(),
		})
	}
	return out
}
