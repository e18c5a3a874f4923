package paymentRepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"towgo/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*PostgresPaymentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &PostgresPaymentRepo{db: db, now: func() time.Time { return fixed }}, mock
}

func TestCreatePayment(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	p := &models.Payment{
		ID: "pay-1", UserID: "user-1", ServiceID: "priority-dispatch", StripeSessionID: "cs_test_1",
		AmountCents: 999, Currency: "usd", Status: models.PaymentPending, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(insertPaymentStmt)).
		WithArgs("pay-1", "user-1", "priority-dispatch", "cs_test_1", int64(999), "usd", "pending", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_Error(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(insertPaymentStmt)).WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), &models.Payment{StripeSessionID: "cs_dup"})
	assert.ErrorContains(t, err, "cs_dup")
}

func TestUpdateStatusBySession(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(updatePaymentStmt)).
		WithArgs("paid", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), "cs_test_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatusBySession(context.Background(), "cs_test_1", models.PaymentPaid))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusBySession_Unknown(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(updatePaymentStmt)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatusBySession(context.Background(), "cs_missing", models.PaymentExpired)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBySession(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(getPaymentBySession)).WithArgs("cs_test_1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "service_id", "stripe_session_id", "amount_cents", "currency", "status", "created_at", "updated_at"}).
			AddRow("pay-1", "user-1", "priority-dispatch", "cs_test_1", int64(999), "usd", "paid", now, now))

	p, err := repo.GetBySession(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)
	assert.Equal(t, int64(999), p.AmountCents)
}

func TestGetBySession_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(getPaymentBySession)).WithArgs("cs_x").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBySession(context.Background(), "cs_x")
	assert.ErrorIs(t, err, ErrNotFound)
}
