package usecase

import (
	"context"
	"time"

	"github.com/wapas/voicerelay/internal/metrics"
	"github.com/wapas/voicerelay/internal/recovery/domain"
)

// recoveryUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type recoveryUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewRecoveryUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewRecoveryUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &recoveryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ProcessCheckout records per-outcome metrics for pipeline runs.
func (r *recoveryUseCaseWithMetrics) ProcessCheckout(
	ctx context.Context,
	event *domain.CheckoutEvent,
) (Outcome, error) {
	start := time.Now()
	outcome, err := r.next.ProcessCheckout(ctx, event)

	status := string(outcome)
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "recovery", "process_checkout", status)
	r.metrics.RecordDuration(ctx, "recovery", "process_checkout", time.Since(start), status)

	return outcome, err
}
