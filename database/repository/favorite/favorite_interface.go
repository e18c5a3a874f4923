package favoriteRepo

import (
	"context"
	"errors"

	"towgo/models"
)

// ErrNotFound is returned when no favorite matches the user/placeId pair.
var ErrNotFound = errors.New("favorite not found")

// FavoriteRepository defines methods for favorite data access.
// Every method is a single statement scoped to one user.
type FavoriteRepository interface {
	// ListByUser returns the user's favorites, oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	// Insert stores a new favorite row.
	Insert(ctx context.Context, fav *models.Favorite) error
	// DeleteByPlaceID removes the user's favorites for placeID.
	DeleteByPlaceID(ctx context.Context, userID, placeID string) error
}
