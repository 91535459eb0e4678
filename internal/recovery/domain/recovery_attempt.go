package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appValidation "github.com/wapas/voicerelay/internal/validation"
)

// AttemptStatus is the outcome of a recovery attempt.
type AttemptStatus string

// Recovery attempt statuses.
const (
	StatusPending AttemptStatus = "pending"
	StatusSent    AttemptStatus = "sent"
	StatusFailed  AttemptStatus = "failed"
)

// Well-known attempt error messages persisted with failed attempts.
const (
	ErrorAudioGeneration = "Audio generation failed"
	ErrorWhatsAppSend    = "WhatsApp sending failed"
)

// RecoveryAttempt is one durable record of an effort to contact a customer
// about an abandoned cart. Attempts are written once at the terminal outcome
// of a pipeline run and never mutated afterward.
type RecoveryAttempt struct {
	ID            uuid.UUID
	CheckoutID    sql.NullString
	CustomerName  string
	CustomerPhone string
	Amount        string
	Currency      string
	Status        AttemptStatus
	AudioRef      sql.NullString
	ErrorMessage  sql.NullString
	CreatedAt     time.Time
}

// NewSentAttempt builds a delivered attempt for the given contact.
func NewSentAttempt(contact *CustomerContact, audioRef string) *RecoveryAttempt {
	attempt := newAttempt(contact)
	attempt.Status = StatusSent
	if audioRef != "" {
		attempt.AudioRef = sql.NullString{String: audioRef, Valid: true}
	}
	return attempt
}

// NewFailedAttempt builds a failed attempt carrying the error message.
func NewFailedAttempt(contact *CustomerContact, errorMessage string) *RecoveryAttempt {
	attempt := newAttempt(contact)
	attempt.Status = StatusFailed
	attempt.ErrorMessage = sql.NullString{String: errorMessage, Valid: true}
	return attempt
}

func newAttempt(contact *CustomerContact) *RecoveryAttempt {
	attempt := &RecoveryAttempt{
		ID:            uuid.Must(uuid.NewV7()),
		CustomerName:  contact.Name,
		CustomerPhone: contact.Phone,
		Amount:        contact.Amount,
		Currency:      contact.Currency,
		CreatedAt:     time.Now().UTC(),
	}
	if contact.CheckoutID != "" {
		attempt.CheckoutID = sql.NullString{String: contact.CheckoutID, Valid: true}
	}
	return attempt
}

// Validate checks the attempt invariants before persistence.
func (a *RecoveryAttempt) Validate() error {
	err := validation.ValidateStruct(a,
		validation.Field(&a.CustomerPhone,
			validation.Required.Error("customer phone is required"),
			appValidation.NotBlank,
			validation.Length(12, 12).Error("customer phone must be a 12-digit normalized number"),
		),
		validation.Field(&a.CustomerName,
			validation.Required.Error("customer name is required"),
			appValidation.NotBlank,
		),
		validation.Field(&a.Currency,
			validation.Required.Error("currency is required"),
			appValidation.CurrencyCode,
		),
		validation.Field(&a.Status,
			validation.Required.Error("status is required"),
			validation.In(StatusPending, StatusSent, StatusFailed).Error("status must be pending, sent or failed"),
		),
	)
	return appValidation.WrapValidationError(err)
}
