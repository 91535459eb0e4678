// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wapas/voicerelay/internal/recovery/domain"
	recoveryUseCase "github.com/wapas/voicerelay/internal/recovery/usecase"
)

// MockRecoveryUseCase is a mock implementation of UseCase for testing.
type MockRecoveryUseCase struct {
	mock.Mock
}

// ProcessCheckout mocks the ProcessCheckout method of UseCase.
func (m *MockRecoveryUseCase) ProcessCheckout(
	ctx context.Context,
	event *domain.CheckoutEvent,
) (recoveryUseCase.Outcome, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(recoveryUseCase.Outcome), args.Error(1)
}
