package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/wapas/voicerelay/internal/recovery/domain"

	apperrors "github.com/wapas/voicerelay/internal/errors"
)

// MySQLRecoveryRepository handles recovery attempt persistence for MySQL.
type MySQLRecoveryRepository struct {
	db *sql.DB
}

// NewMySQLRecoveryRepository creates a new MySQLRecoveryRepository.
func NewMySQLRecoveryRepository(db *sql.DB) *MySQLRecoveryRepository {
	return &MySQLRecoveryRepository{
		db: db,
	}
}

// Create inserts a new recovery attempt. Duplicate-entry errors map to
// ErrConflict so callers can treat them as the duplicate signal.
func (r *MySQLRecoveryRepository) Create(ctx context.Context, attempt *domain.RecoveryAttempt) error {
	query := `INSERT INTO recoveries
			  (id, shopify_checkout_id, customer_name, customer_phone, amount, currency, status, audio_url, error_message, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		attempt.ID.String(),
		attempt.CheckoutID,
		attempt.CustomerName,
		attempt.CustomerPhone,
		attempt.Amount,
		attempt.Currency,
		attempt.Status,
		attempt.AudioRef,
		attempt.ErrorMessage,
		attempt.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "sent attempt already recorded for checkout")
		}
		return apperrors.Wrap(err, "failed to create recovery attempt")
	}
	return nil
}

// HasSentAttempt reports whether a delivered attempt exists for the checkout id.
func (r *MySQLRecoveryRepository) HasSentAttempt(ctx context.Context, checkoutID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM recoveries WHERE shopify_checkout_id = ? AND status = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, checkoutID, domain.StatusSent).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to query sent attempts")
	}
	return exists, nil
}

// isMySQLDuplicateEntry checks if the error is a MySQL duplicate entry violation
func isMySQLDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
