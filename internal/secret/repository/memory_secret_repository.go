// Package repository provides the in-memory metadata registry for secrets.
// The registry is intentionally volatile: every record lives from process
// start to first retrieval, expiry, or process end, whichever comes first.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/lockbin/internal/errors"
	"github.com/allisson/lockbin/internal/secret/domain"
)

// MemorySecretRepository is an in-process map from secret id to metadata,
// guarded by a single mutex. The consume transition (check expired, check
// consumed, flip consumed) executes as one critical section so that two
// retrievals racing on the same id can never both succeed.
type MemorySecretRepository struct {
	mu      sync.RWMutex
	secrets map[uuid.UUID]*domain.Secret
	now     func() time.Time
}

// NewMemorySecretRepository creates a registry using the system clock.
func NewMemorySecretRepository() *MemorySecretRepository {
	return NewMemorySecretRepositoryWithClock(time.Now)
}

// NewMemorySecretRepositoryWithClock creates a registry with a custom clock.
// Tests use this to control expiry deterministically.
func NewMemorySecretRepositoryWithClock(now func() time.Time) *MemorySecretRepository {
	return &MemorySecretRepository{
		secrets: make(map[uuid.UUID]*domain.Secret),
		now:     now,
	}
}

// Create registers a new metadata record. The blob must already be persisted
// by the caller: creation order is write blob first, register second.
func (r *MemorySecretRepository) Create(ctx context.Context, secret *domain.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.secrets[secret.ID]; exists {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "secret id already registered")
	}

	r.secrets[secret.ID] = clone(secret)
	return nil
}

// Get returns the record for id without mutating it. Expiry is evaluated
// lazily: a record past its expiry behaves as gone even before the next sweep.
func (r *MemorySecretRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	secret, exists := r.secrets[id]
	if !exists {
		return nil, domain.ErrSecretNotFound
	}
	if secret.Consumed {
		return nil, domain.ErrSecretConsumed
	}
	if secret.Expired(r.now()) {
		return nil, domain.ErrSecretExpired
	}

	return clone(secret), nil
}

// Consume atomically transitions a not-yet-consumed, not-expired record to
// consumed and returns it. Exactly one caller among any number of concurrent
// callers observes success; all others get ErrSecretConsumed (or expiry).
func (r *MemorySecretRepository) Consume(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	secret, exists := r.secrets[id]
	if !exists {
		return nil, domain.ErrSecretNotFound
	}
	if secret.Consumed {
		return nil, domain.ErrSecretConsumed
	}
	if secret.Expired(r.now()) {
		return nil, domain.ErrSecretExpired
	}

	secret.Consumed = true
	return clone(secret), nil
}

// Remove deletes the metadata record for id. Removing an unknown id is a no-op.
func (r *MemorySecretRepository) Remove(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.secrets, id)
	return nil
}

// ListExpired returns every id eligible for garbage collection: records past
// their expiry and records already consumed.
func (r *MemorySecretRepository) ListExpired(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var ids []uuid.UUID
	for id, secret := range r.secrets {
		if secret.Consumed || secret.Expired(now) {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// CountLive returns the number of records still retrievable right now.
func (r *MemorySecretRepository) CountLive(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	count := 0
	for _, secret := range r.secrets {
		if !secret.Consumed && !secret.Expired(now) {
			count++
		}
	}

	return count, nil
}

// Contains reports whether a metadata record exists for id, regardless of
// lifecycle state. Used by the sweeper's orphan reconciliation.
func (r *MemorySecretRepository) Contains(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.secrets[id]
	return exists, nil
}

// clone returns a deep copy so callers never share mutable state with the map.
func clone(secret *domain.Secret) *domain.Secret {
	copied := *secret
	if secret.PasswordGate != nil {
		gate := *secret.PasswordGate
		copied.PasswordGate = &gate
	}
	return &copied
}
