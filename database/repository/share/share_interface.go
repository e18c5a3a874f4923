package shareRepo

import (
	"context"
	"errors"

	"towgo/models"
)

// ErrNotFound is returned when no share exists with the given ID.
var ErrNotFound = errors.New("location share not found")

// ShareRepository stores location share snapshots.
type ShareRepository interface {
	Create(ctx context.Context, share *models.LocationShare) error
	GetByShareID(ctx context.Context, shareID string) (*models.LocationShare, error)
	// EnsureIndexes creates the unique shareId index and the expiresAt TTL index.
	EnsureIndexes(ctx context.Context) error
}
