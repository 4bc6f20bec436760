package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/lockbin/internal/metrics"
	"github.com/allisson/lockbin/internal/secret/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for secret creation operations.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secret", "secret_create", status)
	s.metrics.RecordDuration(ctx, "secret", "secret_create", time.Since(start), status)

	return secret, err
}

// Probe records metrics for non-consuming existence checks.
func (s *secretUseCaseWithMetrics) Probe(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Probe(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secret", "secret_probe", status)
	s.metrics.RecordDuration(ctx, "secret", "secret_probe", time.Since(start), status)

	return secret, err
}

// Reveal records metrics for consuming reads.
func (s *secretUseCaseWithMetrics) Reveal(
	ctx context.Context,
	id uuid.UUID,
	kind domain.Kind,
) (*domain.Secret, []byte, error) {
	start := time.Now()
	secret, data, err := s.next.Reveal(ctx, id, kind)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secret", "secret_reveal", status)
	s.metrics.RecordDuration(ctx, "secret", "secret_reveal", time.Since(start), status)

	return secret, data, err
}

// LiveCount records metrics for live record counting.
func (s *secretUseCaseWithMetrics) LiveCount(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := s.next.LiveCount(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secret", "secret_live_count", status)
	s.metrics.RecordDuration(ctx, "secret", "secret_live_count", time.Since(start), status)

	return count, err
}
