// Package common defines shared sentinel errors used across watchdeck
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyInitialized is returned when admin bootstrap is attempted
	// after a user already exists. The bootstrap path is one-shot.
	ErrAlreadyInitialized = errors.New("already initialized")
)
