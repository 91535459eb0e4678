// Package mocks provides mock implementations for testing the recovery pipeline.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wapas/voicerelay/internal/language"
	"github.com/wapas/voicerelay/internal/recovery/domain"
)

// MockRecoveryRepository is a mock implementation of RecoveryRepository for testing.
type MockRecoveryRepository struct {
	mock.Mock
}

// Create mocks the Create method of RecoveryRepository.
func (m *MockRecoveryRepository) Create(ctx context.Context, attempt *domain.RecoveryAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

// HasSentAttempt mocks the HasSentAttempt method of RecoveryRepository.
func (m *MockRecoveryRepository) HasSentAttempt(ctx context.Context, checkoutID string) (bool, error) {
	args := m.Called(ctx, checkoutID)
	return args.Bool(0), args.Error(1)
}

// MockSynthesizer is a mock implementation of Synthesizer for testing.
type MockSynthesizer struct {
	mock.Mock
}

// Synthesize mocks the Synthesize method of Synthesizer.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string, code language.Code) ([]byte, error) {
	args := m.Called(ctx, text, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockMessenger is a mock implementation of Messenger for testing.
type MockMessenger struct {
	mock.Mock
}

// SendAudio mocks the SendAudio method of Messenger.
func (m *MockMessenger) SendAudio(ctx context.Context, to string, audio []byte) (string, error) {
	args := m.Called(ctx, to, audio)
	return args.String(0), args.Error(1)
}

// MockAudioArchiver is a mock implementation of AudioArchiver for testing.
type MockAudioArchiver struct {
	mock.Mock
}

// Save mocks the Save method of AudioArchiver.
func (m *MockAudioArchiver) Save(ctx context.Context, audio []byte) (string, error) {
	args := m.Called(ctx, audio)
	return args.String(0), args.Error(1)
}
