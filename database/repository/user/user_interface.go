package userRepo

import (
	"context"
	"errors"

	"towgo/models"
)

var ErrNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Ensure records the user if it does not exist yet. Existing rows are left untouched.
	Ensure(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
