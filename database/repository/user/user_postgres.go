package userRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"towgo/models"
	"towgo/utils"
)

const (
	ensureUserStmt = `INSERT INTO users (id, email, created_at) VALUES ($1, NULLIF($2, ''), $3) ON CONFLICT (id) DO NOTHING`
	getUserQuery   = `SELECT id, COALESCE(email, ''), created_at FROM users WHERE id = $1`
)

// PostgresUserRepo implements UserRepository using Postgres.
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo creates a new instance of UserRepository using Postgres.
func NewPostgresUserRepo(db *sql.DB) UserRepository {
	return &PostgresUserRepo{db: db}
}

func (r *PostgresUserRepo) Ensure(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, ensureUserStmt, user.ID, user.Email, user.CreatedAt); err != nil {
		return fmt.Errorf("failed to record user %s: %w", user.ID, err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, getUserQuery, id).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &u, nil
}
