package paymentRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"towgo/models"
	"towgo/utils"
)

const (
	insertPaymentStmt   = `INSERT INTO payments (id, user_id, service_id, stripe_session_id, amount_cents, currency, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	updatePaymentStmt   = `UPDATE payments SET status = $1, updated_at = $2 WHERE stripe_session_id = $3`
	getPaymentBySession = `SELECT id, user_id, service_id, stripe_session_id, amount_cents, currency, status, created_at, updated_at FROM payments WHERE stripe_session_id = $1`
)

// PostgresPaymentRepo implements PaymentRepository using Postgres.
type PostgresPaymentRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresPaymentRepo creates a new instance of PaymentRepository using Postgres.
func NewPostgresPaymentRepo(db *sql.DB) PaymentRepository {
	return &PostgresPaymentRepo{db: db, now: time.Now}
}

// Create inserts a payment. ID, status and timestamps must be set by the caller.
func (r *PostgresPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, insertPaymentStmt,
		p.ID, p.UserID, p.ServiceID, p.StripeSessionID, p.AmountCents, p.Currency,
		string(p.Status), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment for session %s: %w", p.StripeSessionID, err)
	}
	return nil
}

// UpdateStatusBySession moves the payment for a Stripe session to a new status.
func (r *PostgresPaymentRepo) UpdateStatusBySession(ctx context.Context, sessionID string, status models.PaymentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, updatePaymentStmt, string(status), r.now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update payment for session %s: %w", sessionID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBySession looks up the payment created for a Stripe session.
func (r *PostgresPaymentRepo) GetBySession(ctx context.Context, sessionID string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	var p models.Payment
	var status string
	err := r.db.QueryRowContext(ctx, getPaymentBySession, sessionID).Scan(
		&p.ID, &p.UserID, &p.ServiceID, &p.StripeSessionID, &p.AmountCents, &p.Currency,
		&status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment for session %s: %w", sessionID, err)
	}
	p.Status = models.PaymentStatus(status)
	return &p, nil
}
