// Package repository provides data persistence implementations for the
// recovery ledger.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/wapas/voicerelay/internal/recovery/domain"

	apperrors "github.com/wapas/voicerelay/internal/errors"
)

// PostgreSQLRecoveryRepository handles recovery attempt persistence for PostgreSQL.
type PostgreSQLRecoveryRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecoveryRepository creates a new PostgreSQLRecoveryRepository.
func NewPostgreSQLRecoveryRepository(db *sql.DB) *PostgreSQLRecoveryRepository {
	return &PostgreSQLRecoveryRepository{
		db: db,
	}
}

// Create inserts a new recovery attempt. A unique-constraint violation on the
// sent-per-checkout index maps to ErrConflict so callers can treat it as the
// duplicate signal.
func (r *PostgreSQLRecoveryRepository) Create(ctx context.Context, attempt *domain.RecoveryAttempt) error {
	query := `INSERT INTO recoveries
			  (id, shopify_checkout_id, customer_name, customer_phone, amount, currency, status, audio_url, error_message, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		attempt.ID,
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
		if isPostgreSQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "sent attempt already recorded for checkout")
		}
		return apperrors.Wrap(err, "failed to create recovery attempt")
	}
	return nil
}

// HasSentAttempt reports whether a delivered attempt exists for the checkout id.
func (r *PostgreSQLRecoveryRepository) HasSentAttempt(ctx context.Context, checkoutID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM recoveries WHERE shopify_checkout_id = $1 AND status = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, checkoutID, domain.StatusSent).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to query sent attempts")
	}
	return exists, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
