package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/lockbin/internal/blob"
	apperrors "github.com/allisson/lockbin/internal/errors"
	"github.com/allisson/lockbin/internal/secret/domain"
)

// secretUseCase implements the SecretUseCase interface.
type secretUseCase struct {
	secretRepo SecretRepository
	blobStore  blob.Store
	logger     *slog.Logger
	now        func() time.Time
}

// NewSecretUseCase creates a new secret use case.
func NewSecretUseCase(
	secretRepo SecretRepository,
	blobStore blob.Store,
	logger *slog.Logger,
) SecretUseCase {
	return &secretUseCase{
		secretRepo: secretRepo,
		blobStore:  blobStore,
		logger:     logger,
		now:        time.Now,
	}
}

// Create persists the ciphertext blob first and registers the metadata record
// second. A crash between the two steps leaves at most an orphan blob, which
// the sweeper's startup reconciliation collects; it can never leave metadata
// pointing at data that was not written.
func (s *secretUseCase) Create(ctx context.Context, input CreateSecretInput) (*domain.Secret, error) {
	if len(input.Ciphertext) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ciphertext is required")
	}
	if input.IV == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "iv is required")
	}

	ttl, ttlOption := domain.ParseTTL(input.TTLOption)
	now := s.now().UTC()

	secret := &domain.Secret{
		ID:           uuid.New(),
		Kind:         input.Kind,
		IV:           input.IV,
		SizeBytes:    int64(len(input.Ciphertext)),
		OriginalName: input.OriginalName,
		MimeType:     input.MimeType,
		PasswordGate: input.PasswordGate,
		TTLOption:    ttlOption,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	if err := s.blobStore.Put(ctx, secret.ID.String(), input.Ciphertext); err != nil {
		return nil, err
	}

	if err := s.secretRepo.Create(ctx, secret); err != nil {
		// Registration failed: take the blob back out so nothing lingers
		if delErr := s.blobStore.Delete(ctx, secret.ID.String()); delErr != nil {
			s.logger.Warn("failed to delete blob after registration failure",
				slog.String("secret_id", secret.ID.String()),
				slog.Any("error", delErr),
			)
		}
		return nil, err
	}

	s.logger.Info("secret created",
		slog.String("secret_id", secret.ID.String()),
		slog.String("kind", string(secret.Kind)),
		slog.String("ttl", ttlOption),
		slog.Int64("size_bytes", secret.SizeBytes),
		slog.Bool("has_password", secret.HasPassword()),
	)

	return secret, nil
}

// Probe looks up the record without consuming it. An expired record observed
// here is destroyed opportunistically instead of waiting for the next sweep.
func (s *secretUseCase) Probe(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	secret, err := s.secretRepo.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, domain.ErrSecretExpired) {
			s.destroy(ctx, id)
		}
		return nil, err
	}

	return secret, nil
}

// Reveal is the consuming read. The kind check runs before consumption so a
// request against the wrong endpoint does not burn the single allowed read.
// The ciphertext is fetched BEFORE the consume flip: a consumed record is
// already sweep-eligible, so reading after the flip races the sweeper's blob
// delete and can lose the payload for the one caller entitled to it. A losing
// concurrent caller fetches the blob too and simply discards it when Consume
// re-validates the full state atomically.
func (s *secretUseCase) Reveal(
	ctx context.Context,
	id uuid.UUID,
	kind domain.Kind,
) (*domain.Secret, []byte, error) {
	secret, err := s.secretRepo.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, domain.ErrSecretExpired) {
			s.destroy(ctx, id)
		}
		return nil, nil, err
	}
	if secret.Kind != kind {
		return nil, nil, domain.ErrKindMismatch
	}

	data, err := s.blobStore.Get(ctx, id.String())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Live metadata pointing at a missing ciphertext: remove the
			// record so subsequent calls observe absence
			s.destroy(ctx, id)
			return nil, nil, domain.ErrSecretNotFound
		}
		return nil, nil, err
	}

	secret, err = s.secretRepo.Consume(ctx, id)
	if err != nil {
		if apperrors.Is(err, domain.ErrSecretExpired) {
			s.destroy(ctx, id)
		}
		return nil, nil, err
	}

	// One-time access: the ciphertext is deleted in the same request. The
	// consumed metadata record stays behind so later attempts observe "gone"
	// until the sweeper collects it.
	if err := s.blobStore.Delete(ctx, id.String()); err != nil {
		s.logger.Warn("failed to delete blob after consuming read",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}

	s.logger.Info("secret accessed and destroyed",
		slog.String("secret_id", id.String()),
		slog.String("kind", string(secret.Kind)),
	)

	return secret, data, nil
}

// LiveCount returns the number of currently retrievable secrets.
func (s *secretUseCase) LiveCount(ctx context.Context) (int, error) {
	return s.secretRepo.CountLive(ctx)
}

// destroy deletes the blob and then the metadata record, best effort. Blob
// deletion runs first so an interruption leaves metadata that still reports
// the secret as gone rather than a blob-less record reported as available.
func (s *secretUseCase) destroy(ctx context.Context, id uuid.UUID) {
	if err := s.blobStore.Delete(ctx, id.String()); err != nil {
		s.logger.Warn("failed to delete blob",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
		return
	}

	if err := s.secretRepo.Remove(ctx, id); err != nil {
		s.logger.Warn("failed to remove secret metadata",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}
}
