// Package domain defines core domain models and errors for one-time secrets.
package domain

import (
	"github.com/allisson/lockbin/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no metadata record exists for the id.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretConsumed indicates the secret was already released to a caller.
	ErrSecretConsumed = errors.Wrap(errors.ErrGone, "secret already accessed")

	// ErrSecretExpired indicates the secret is past its expiry.
	ErrSecretExpired = errors.Wrap(errors.ErrGone, "secret expired")

	// ErrKindMismatch indicates the secret exists but is of a different kind
	// than the endpoint expects.
	ErrKindMismatch = errors.Wrap(errors.ErrInvalidInput, "secret kind mismatch")
)
