package usecase

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/wapas/voicerelay/internal/errors"
	"github.com/wapas/voicerelay/internal/language"
	"github.com/wapas/voicerelay/internal/recovery/domain"
	"github.com/wapas/voicerelay/internal/script"
)

// RecoveryUseCase runs the recovery pipeline. Steps are strictly sequential;
// nothing is retried here - redelivery is the webhook sender's job and the
// dedup check guards against double sends.
type RecoveryUseCase struct {
	repo        RecoveryRepository
	synthesizer Synthesizer
	messenger   Messenger
	archiver    AudioArchiver
	resolver    *language.Resolver
	logger      *slog.Logger
}

// NewRecoveryUseCase creates a RecoveryUseCase. archiver may be nil, which
// disables audio archiving; attempts are then recorded without an audio
// reference.
func NewRecoveryUseCase(
	repo RecoveryRepository,
	synthesizer Synthesizer,
	messenger Messenger,
	archiver AudioArchiver,
	resolver *language.Resolver,
	logger *slog.Logger,
) *RecoveryUseCase {
	return &RecoveryUseCase{
		repo:        repo,
		synthesizer: synthesizer,
		messenger:   messenger,
		archiver:    archiver,
		resolver:    resolver,
		logger:      logger,
	}
}

// ProcessCheckout runs the pipeline for one verified checkout event:
// extract contact, suppress duplicates, localize, synthesize, deliver,
// record. Provider failures resolve to an Outcome with a failed attempt in
// the ledger; only unexpected internal failures return an error.
func (uc *RecoveryUseCase) ProcessCheckout(ctx context.Context, event *domain.CheckoutEvent) (Outcome, error) {
	start := time.Now()

	contact := domain.ExtractContact(event)
	if contact == nil {
		uc.logger.Warn("no usable phone number in checkout",
			slog.String("checkout_id", event.ID),
		)
		return OutcomeNoPhone, nil
	}

	if contact.CheckoutID != "" {
		duplicate, err := uc.repo.HasSentAttempt(ctx, contact.CheckoutID)
		if err != nil {
			// Fail open: a ledger outage must not silently drop deliveries.
			uc.logger.Error("dedup check failed, proceeding as non-duplicate",
				slog.String("checkout_id", contact.CheckoutID),
				slog.Any("error", err),
			)
		} else if duplicate {
			uc.logger.Warn("duplicate checkout suppressed",
				slog.String("checkout_id", contact.CheckoutID),
			)
			return OutcomeDuplicate, nil
		}
	}

	lang := uc.resolver.DetectFromState(contact.Province)
	text := script.Generate(contact.Name, lang)

	uc.logger.Info("processing checkout",
		slog.String("checkout_id", contact.CheckoutID),
		slog.String("phone", contact.Phone),
		slog.String("language", string(lang)),
		slog.String("province", contact.Province),
	)

	audio, err := uc.synthesizer.Synthesize(ctx, text, lang)
	if err != nil {
		uc.logger.Error("audio generation failed",
			slog.String("checkout_id", contact.CheckoutID),
			slog.Any("error", err),
		)
		uc.record(ctx, domain.NewFailedAttempt(contact, domain.ErrorAudioGeneration))
		return OutcomeSynthesisFailed, nil
	}

	audioRef := uc.archive(ctx, audio)

	if _, err := uc.messenger.SendAudio(ctx, contact.Phone, audio); err != nil {
		uc.logger.Error("whatsapp delivery failed",
			slog.String("checkout_id", contact.CheckoutID),
			slog.String("phone", contact.Phone),
			slog.Any("error", err),
		)
		uc.record(ctx, domain.NewFailedAttempt(contact, domain.ErrorWhatsAppSend))
		return OutcomeDeliveryFailed, nil
	}

	uc.logger.Info("voice note delivered",
		slog.String("checkout_id", contact.CheckoutID),
		slog.String("phone", contact.Phone),
		slog.Duration("duration", time.Since(start)),
	)

	uc.record(ctx, domain.NewSentAttempt(contact, audioRef))
	return OutcomeProcessed, nil
}

// archive stores the audio bytes when archiving is enabled. Archive failures
// only cost the audio reference, never the delivery.
func (uc *RecoveryUseCase) archive(ctx context.Context, audio []byte) string {
	if uc.archiver == nil {
		return ""
	}
	ref, err := uc.archiver.Save(ctx, audio)
	if err != nil {
		uc.logger.Error("audio archive failed", slog.Any("error", err))
		return ""
	}
	return ref
}

// record writes the terminal attempt. The HTTP response owed to the sender is
// already decided, so write failures are logged and swallowed. A conflict on
// the sent-per-checkout constraint means a concurrent run won the race; the
// delivery already happened, so it is logged as a lost dedup race.
func (uc *RecoveryUseCase) record(ctx context.Context, attempt *domain.RecoveryAttempt) {
	if err := attempt.Validate(); err != nil {
		uc.logger.Error("recovery attempt failed validation", slog.Any("error", err))
		return
	}

	if err := uc.repo.Create(ctx, attempt); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			uc.logger.Warn("concurrent sent attempt already recorded",
				slog.String("checkout_id", attempt.CheckoutID.String),
			)
			return
		}
		uc.logger.Error("failed to record recovery attempt",
			slog.String("status", string(attempt.Status)),
			slog.Any("error", err),
		)
	}
}
