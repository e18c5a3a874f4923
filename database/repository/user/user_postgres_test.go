package userRepo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"towgo/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(ensureUserStmt)).
		WithArgs("user-1", "", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresUserRepo(db)
	require.NoError(t, repo.Ensure(context.Background(), &models.User{ID: "user-1", CreatedAt: now}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(getUserQuery)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at"}).AddRow("user-1", "a@b.c", now))
	mock.ExpectQuery(regexp.QuoteMeta(getUserQuery)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at"}))

	repo := NewPostgresUserRepo(db)
	u, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)

	_, err = repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
