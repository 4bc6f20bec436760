package repository_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/allisson/lockbin/internal/errors"
	"github.com/allisson/lockbin/internal/secret/domain"
	"github.com/allisson/lockbin/internal/secret/repository"
)

func newSecret(now time.Time, ttl time.Duration) *domain.Secret {
	return &domain.Secret{
		ID:        uuid.New(),
		Kind:      domain.KindText,
		IV:        "aXYtYnl0ZXM=",
		SizeBytes: 42,
		TTLOption: domain.TTL5m,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemorySecretRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := repository.NewMemorySecretRepositoryWithClock(func() time.Time { return now })

	secret := newSecret(now, 5*time.Minute)
	require.NoError(t, repo.Create(ctx, secret))

	got, err := repo.Get(ctx, secret.ID)
	require.NoError(t, err)
	assert.Equal(t, secret.ID, got.ID)
	assert.Equal(t, secret.IV, got.IV)
	assert.False(t, got.Consumed)

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := repo.Create(ctx, secret)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrSecretNotFound)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		got.IV = "mutated"
		fresh, err := repo.Get(ctx, secret.ID)
		require.NoError(t, err)
		assert.Equal(t, "aXYtYnl0ZXM=", fresh.IV)
	})
}

func TestMemorySecretRepository_Consume(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := repository.NewMemorySecretRepositoryWithClock(func() time.Time { return now })

	secret := newSecret(now, 5*time.Minute)
	require.NoError(t, repo.Create(ctx, secret))

	consumed, err := repo.Consume(ctx, secret.ID)
	require.NoError(t, err)
	assert.True(t, consumed.Consumed)

	// Every read after the consuming one observes gone
	_, err = repo.Get(ctx, secret.ID)
	assert.ErrorIs(t, err, domain.ErrSecretConsumed)

	_, err = repo.Consume(ctx, secret.ID)
	assert.ErrorIs(t, err, domain.ErrSecretConsumed)
}

func TestMemorySecretRepository_ConsumeIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySecretRepository()

	now := time.Now().UTC()
	secret := newSecret(now, time.Hour)
	require.NoError(t, repo.Create(ctx, secret))

	var successes atomic.Int64
	var gone atomic.Int64

	g := new(errgroup.Group)
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := repo.Consume(ctx, secret.ID)
			switch {
			case err == nil:
				successes.Add(1)
			case apperrors.Is(err, apperrors.ErrGone):
				gone.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), successes.Load())
	assert.Equal(t, int64(49), gone.Load())
}

func TestMemorySecretRepository_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	current := now
	repo := repository.NewMemorySecretRepositoryWithClock(func() time.Time { return current })

	secret := newSecret(now, 5*time.Minute)
	require.NoError(t, repo.Create(ctx, secret))

	// Advance past expiry: reads must reject before any sweep runs
	current = now.Add(5*time.Minute + time.Second)

	_, err := repo.Get(ctx, secret.ID)
	assert.ErrorIs(t, err, domain.ErrSecretExpired)

	_, err = repo.Consume(ctx, secret.ID)
	assert.ErrorIs(t, err, domain.ErrSecretExpired)
}

func TestMemorySecretRepository_Remove(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySecretRepository()

	secret := newSecret(time.Now().UTC(), time.Minute)
	require.NoError(t, repo.Create(ctx, secret))

	require.NoError(t, repo.Remove(ctx, secret.ID))
	// Removing again is a no-op
	require.NoError(t, repo.Remove(ctx, secret.ID))

	_, err := repo.Get(ctx, secret.ID)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestMemorySecretRepository_ListExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	current := now
	repo := repository.NewMemorySecretRepositoryWithClock(func() time.Time { return current })

	live := newSecret(now, time.Hour)
	expired := newSecret(now, time.Minute)
	consumed := newSecret(now, time.Hour)

	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, consumed))

	_, err := repo.Consume(ctx, consumed.ID)
	require.NoError(t, err)

	current = now.Add(2 * time.Minute)

	ids, err := repo.ListExpired(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{expired.ID, consumed.ID}, ids)

	count, err := repo.CountLive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemorySecretRepository_Contains(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	current := now
	repo := repository.NewMemorySecretRepositoryWithClock(func() time.Time { return current })

	secret := newSecret(now, time.Minute)
	require.NoError(t, repo.Create(ctx, secret))

	exists, err := repo.Contains(ctx, secret.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// Contains ignores lifecycle state
	current = now.Add(time.Hour)
	exists, err = repo.Contains(ctx, secret.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Contains(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
