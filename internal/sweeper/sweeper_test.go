package sweeper_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/lockbin/internal/blob"
	apperrors "github.com/allisson/lockbin/internal/errors"
	"github.com/allisson/lockbin/internal/metrics"
	"github.com/allisson/lockbin/internal/secret/domain"
	"github.com/allisson/lockbin/internal/secret/repository"
	"github.com/allisson/lockbin/internal/sweeper"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	sweeper *sweeper.Sweeper
	repo    *repository.MemorySecretRepository
	store   blob.Store
	clock   *time.Time
}

func setupSweeper(t *testing.T, interval time.Duration) fixture {
	t.Helper()

	now := time.Now().UTC()
	clock := &now
	repo := repository.NewMemorySecretRepositoryWithClock(func() time.Time { return *clock })
	store := blob.NewMemoryStore()
	t.Cleanup(func() {
		_ = store.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := sweeper.New(repo, store, interval, logger, metrics.NewNoOpBusinessMetrics())

	return fixture{sweeper: s, repo: repo, store: store, clock: clock}
}

func registerSecret(t *testing.T, f fixture, ttl time.Duration) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	now := *f.clock
	secret := &domain.Secret{
		ID:        uuid.New(),
		Kind:      domain.KindText,
		IV:        "aXY=",
		SizeBytes: 4,
		TTLOption: domain.TTL5m,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	require.NoError(t, f.repo.Create(ctx, secret))
	require.NoError(t, f.store.Put(ctx, secret.ID.String(), []byte("data")))
	return secret.ID
}

func TestSweeper_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := setupSweeper(t, 10*time.Millisecond)

	liveID := registerSecret(t, f, time.Hour)
	expiredID := registerSecret(t, f, time.Minute)

	consumedID := registerSecret(t, f, time.Hour)
	_, err := f.repo.Consume(ctx, consumedID)
	require.NoError(t, err)

	*f.clock = f.clock.Add(2 * time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.sweeper.Run(ctx)
	}()

	// Expired and consumed records disappear, blob and metadata both
	assert.Eventually(t, func() bool {
		expiredGone, err := f.repo.Contains(ctx, expiredID)
		if err != nil || expiredGone {
			return false
		}
		consumedGone, err := f.repo.Contains(ctx, consumedID)
		return err == nil && !consumedGone
	}, time.Second, 5*time.Millisecond)

	_, err = f.store.Get(ctx, expiredID.String())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	_, err = f.store.Get(ctx, consumedID.String())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	// The live secret is untouched
	exists, err := f.repo.Contains(ctx, liveID)
	require.NoError(t, err)
	assert.True(t, exists)
	_, err = f.store.Get(ctx, liveID.String())
	assert.NoError(t, err)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

func TestSweeper_RunSweepsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Interval far beyond the test horizon: only the immediate sweep can fire
	f := setupSweeper(t, time.Hour)

	expiredID := registerSecret(t, f, time.Minute)
	*f.clock = f.clock.Add(2 * time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.sweeper.Run(ctx)
	}()

	assert.Eventually(t, func() bool {
		exists, err := f.repo.Contains(ctx, expiredID)
		return err == nil && !exists
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestSweeper_ReconcileOrphans(t *testing.T) {
	ctx := context.Background()
	f := setupSweeper(t, time.Minute)

	registeredID := registerSecret(t, f, time.Hour)

	orphanID := uuid.New()
	require.NoError(t, f.store.Put(ctx, orphanID.String(), []byte("orphan")))

	require.NoError(t, f.sweeper.ReconcileOrphans(ctx))

	// The orphan blob is gone, the registered one survives
	_, err := f.store.Get(ctx, orphanID.String())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = f.store.Get(ctx, registeredID.String())
	assert.NoError(t, err)
}

func TestSweeper_ReconcileOrphansSkipsForeignKeys(t *testing.T) {
	ctx := context.Background()
	f := setupSweeper(t, time.Minute)

	require.NoError(t, f.store.Put(ctx, "not-a-uuid", []byte("foreign")))

	require.NoError(t, f.sweeper.ReconcileOrphans(ctx))

	_, err := f.store.Get(ctx, "not-a-uuid")
	assert.NoError(t, err)
}
