// Package common defines shared constants and sentinel errors used across
// the user-management service layers. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessDenied       = errors.New("access denied")

	// ErrPasswordTooLong also matches ErrValidation.
	ErrPasswordTooLong = fmt.Errorf("%w: password too long", ErrValidation)

	// Auth errors. ErrInvalidToken covers malformed, tampered, wrongly signed
	// and expired tokens alike.
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingSigningKey = errors.New("signing key is not configured")
)
