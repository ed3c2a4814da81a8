// Package common defines shared constants and sentinel errors used across
// LedgerKeep components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrDuplicateEntry = errors.New("already exists")

	// Authentication errors. The login sub-reasons wrap ErrNotAuthenticated
	// so callers can match either the family or the exact cause.
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotAuthenticated)
	ErrInvalidPassword     = fmt.Errorf("%w: invalid password", ErrNotAuthenticated)
	ErrAccountNotConfirmed = fmt.Errorf("%w: account not confirmed", ErrNotAuthenticated)

	// Authorization errors (authenticated but not allowed).
	ErrNotAuthorized = errors.New("not authorized")

	// Two-factor errors.
	ErrNo2FA                = errors.New("two-factor authentication not set up")
	ErrInvalid2FAToken      = errors.New("invalid two-factor code")
	ErrAlreadyAuthenticated = errors.New("already fully authenticated")

	// Validation errors (malformed request payloads).
	ErrInvalidInput = errors.New("invalid input")

	// Token errors (invalid, malformed or revoked session token).
	ErrInvalidToken = errors.New("invalid token")

	// Generic systemic fault, distinct from the domain taxonomy above.
	ErrInternal = errors.New("internal error")
)
