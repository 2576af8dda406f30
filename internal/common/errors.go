// Package common defines shared constants and sentinel errors used across
// the taskdeck client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// Session errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")

	// Validation errors (caller-supplied data rejected before any
	// network call).
	ErrValidation = errors.New("validation error")
)
