// Package usecase defines the interfaces and implementations for the one-time
// secret lifecycle. Use cases orchestrate the metadata registry and the blob
// store so that every retrieval path applies the same access decision:
// exists, not expired, not yet consumed.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/lockbin/internal/secret/domain"
)

// SecretRepository defines the interface for secret metadata registry operations.
type SecretRepository interface {
	Create(ctx context.Context, secret *domain.Secret) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Secret, error)
	// Consume atomically flips a retrievable record to consumed. Exactly one
	// concurrent caller succeeds; the rest observe a gone-class error.
	Consume(ctx context.Context, id uuid.UUID) (*domain.Secret, error)
	Remove(ctx context.Context, id uuid.UUID) error
	ListExpired(ctx context.Context) ([]uuid.UUID, error)
	CountLive(ctx context.Context) (int, error)
}

// CreateSecretInput contains the parameters for storing a new secret.
type CreateSecretInput struct {
	// Kind selects text or file semantics.
	Kind domain.Kind
	// Ciphertext is the encrypted payload, opaque to the server.
	Ciphertext []byte
	// IV is the initialization vector required for client-side decryption (base64).
	IV string
	// TTLOption is the requested expiry option; invalid values map to the default.
	TTLOption string
	// OriginalName is the uploaded file name. File secrets only.
	OriginalName string
	// MimeType is the uploaded file content type. File secrets only.
	MimeType string
	// PasswordGate is optional client-derived password verification material.
	PasswordGate *domain.PasswordGate
}

// SecretUseCase defines the business logic for the secret lifecycle.
type SecretUseCase interface {
	// Create persists the ciphertext and registers the metadata record,
	// in that order, and returns the new record.
	Create(ctx context.Context, input CreateSecretInput) (*domain.Secret, error)

	// Probe reports whether a secret is retrievable without consuming it.
	// Any unavailable state (unknown id, expired, consumed) surfaces as an
	// error so callers cannot distinguish lifecycle states of foreign ids.
	Probe(ctx context.Context, id uuid.UUID) (*domain.Secret, error)

	// Reveal performs the consuming read: it invalidates the record and
	// returns the ciphertext exactly once, deleting the blob in the same
	// call. The consumed metadata lingers until the next sweep so later
	// attempts can be answered with a gone-class error.
	Reveal(ctx context.Context, id uuid.UUID, kind domain.Kind) (*domain.Secret, []byte, error)

	// LiveCount returns the number of currently retrievable secrets.
	LiveCount(ctx context.Context) (int, error)
}
