// Package sweeper implements the background lifecycle coordinator. It
// periodically collects expired and consumed secrets and reconciles orphan
// ciphertext blobs left behind by an unclean shutdown.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/lockbin/internal/blob"
	"github.com/allisson/lockbin/internal/metrics"
)

// SecretRegistry defines the registry operations the sweeper needs.
type SecretRegistry interface {
	ListExpired(ctx context.Context) ([]uuid.UUID, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Contains(ctx context.Context, id uuid.UUID) (bool, error)
}

// Sweeper destroys secrets whose lifecycle has ended. Destruction order is
// blob first, then metadata: an interruption leaves a record that still
// reports the secret as gone instead of a blob with no owner.
type Sweeper struct {
	registry  SecretRegistry
	blobStore blob.Store
	interval  time.Duration
	logger    *slog.Logger
	metrics   metrics.BusinessMetrics
}

// New creates a sweeper with the given sweep interval.
func New(
	registry SecretRegistry,
	blobStore blob.Store,
	interval time.Duration,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) *Sweeper {
	return &Sweeper{
		registry:  registry,
		blobStore: blobStore,
		interval:  interval,
		logger:    logger,
		metrics:   businessMetrics,
	}
}

// ReconcileOrphans removes ciphertext blobs that have no registered metadata.
// It must run before the server starts serving: creation writes the blob
// before registering metadata, so a concurrent listing could otherwise
// observe a blob mid-creation and destroy it.
func (s *Sweeper) ReconcileOrphans(ctx context.Context) error {
	keys, err := s.blobStore.List(ctx)
	if err != nil {
		return err
	}

	removed := 0
	for _, key := range keys {
		id, err := uuid.Parse(key)
		if err != nil {
			// Foreign object in the bucket, leave it alone
			s.logger.Warn("skipping non-secret blob", slog.String("key", key))
			continue
		}

		exists, err := s.registry.Contains(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err := s.blobStore.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete orphan blob",
				slog.String("key", key),
				slog.Any("error", err),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("orphan blobs reconciled", slog.Int("removed", removed))
	}

	return nil
}

// Run sweeps once immediately and then on every tick until the context is
// canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep destroys every secret whose TTL has elapsed or that has already been
// consumed. One failed destruction never aborts the batch.
func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	ids, err := s.registry.ListExpired(ctx)
	if err != nil {
		s.logger.Error("failed to list expired secrets", slog.Any("error", err))
		s.metrics.RecordOperation(ctx, "sweeper", "sweep", "error")
		return
	}

	swept := 0
	for _, id := range ids {
		if err := s.destroy(ctx, id); err != nil {
			s.logger.Warn("failed to destroy secret",
				slog.String("secret_id", id.String()),
				slog.Any("error", err),
			)
			continue
		}
		swept++
	}

	s.metrics.RecordOperation(ctx, "sweeper", "sweep", "success")
	s.metrics.RecordDuration(ctx, "sweeper", "sweep", time.Since(start), "success")

	if swept > 0 {
		s.logger.Info("sweep completed",
			slog.Int("swept", swept),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Sweeper) destroy(ctx context.Context, id uuid.UUID) error {
	if err := s.blobStore.Delete(ctx, id.String()); err != nil {
		return err
	}
	return s.registry.Remove(ctx, id)
}
