// Package common defines shared constants and sentinel errors used across
// NutriGenie components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration errors.
	ErrAlreadyExists = errors.New("user already exists")

	// History errors.
	ErrUnknownAccount = errors.New("unknown account")
	ErrUnknownFeature = errors.New("unknown feature")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
