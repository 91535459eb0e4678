// Package usecase implements the cart recovery pipeline: one inbound
// checkout event in, one terminal outcome and at most one ledger record out.
package usecase

import (
	"context"

	"github.com/wapas/voicerelay/internal/language"
	"github.com/wapas/voicerelay/internal/recovery/domain"
)

// Outcome is the terminal result of one pipeline run. Every run resolves to
// exactly one outcome; handlers map outcomes to HTTP responses.
type Outcome string

// Pipeline outcomes.
const (
	// OutcomeProcessed means the voice note was delivered and recorded.
	OutcomeProcessed Outcome = "processed"
	// OutcomeNoPhone means the checkout carried no usable phone number.
	OutcomeNoPhone Outcome = "no_phone"
	// OutcomeDuplicate means a delivered attempt already exists for the checkout.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeSynthesisFailed means audio generation failed; a failed attempt was recorded.
	OutcomeSynthesisFailed Outcome = "synthesis_failed"
	// OutcomeDeliveryFailed means WhatsApp delivery failed; a failed attempt was recorded.
	OutcomeDeliveryFailed Outcome = "delivery_failed"
)

// UseCase defines the recovery pipeline entry point.
type UseCase interface {
	// ProcessCheckout runs the pipeline for one verified checkout event.
	// The returned error is reserved for unexpected internal failures;
	// provider failures resolve to an Outcome instead.
	ProcessCheckout(ctx context.Context, event *domain.CheckoutEvent) (Outcome, error)
}

// RecoveryRepository defines the ledger operations the pipeline needs.
type RecoveryRepository interface {
	Create(ctx context.Context, attempt *domain.RecoveryAttempt) error
	HasSentAttempt(ctx context.Context, checkoutID string) (bool, error)
}

// Synthesizer converts a spoken script into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, code language.Code) ([]byte, error)
}

// Messenger delivers audio messages to a phone number and returns the
// provider's message id.
type Messenger interface {
	SendAudio(ctx context.Context, to string, audio []byte) (string, error)
}

// AudioArchiver persists synthesized audio and returns a stable reference.
type AudioArchiver interface {
	Save(ctx context.Context, audio []byte) (string, error)
}
