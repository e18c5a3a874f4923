package favoriteRepo

import (
	"context"
	"database/sql"
	"fmt"

	"towgo/models"
	"towgo/utils"
)

const (
	listFavoritesQuery = `SELECT id, user_id, place_id, name, address, phone_number, lat, lng, created_at FROM favorites WHERE user_id = $1 ORDER BY created_at ASC`
	insertFavoriteStmt = `INSERT INTO favorites (id, user_id, place_id, name, address, phone_number, lat, lng, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	deleteFavoriteStmt = `DELETE FROM favorites WHERE user_id = $1 AND place_id = $2`
)

// PostgresFavoriteRepo implements FavoriteRepository using Postgres.
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo creates a new instance of FavoriteRepository using Postgres.
func NewPostgresFavoriteRepo(db *sql.DB) FavoriteRepository {
	return &PostgresFavoriteRepo{db: db}
}

// ListByUser returns the user's favorites.
func (r *PostgresFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listFavoritesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.PlaceID, &f.Name, &f.Address, &f.PhoneNumber,
			&f.Location.Lat, &f.Location.Lng, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}
	return favorites, nil
}

// Insert stores a new favorite row. ID and CreatedAt must be set by the caller.
func (r *PostgresFavoriteRepo) Insert(ctx context.Context, fav *models.Favorite) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, insertFavoriteStmt,
		fav.ID, fav.UserID, fav.PlaceID, fav.Name, fav.Address, fav.PhoneNumber,
		fav.Location.Lat, fav.Location.Lng, fav.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create favorite %s for user %s: %w", fav.PlaceID, fav.UserID, err)
	}
	return nil
}

// DeleteByPlaceID removes the row for the user/placeId pair.
func (r *PostgresFavoriteRepo) DeleteByPlaceID(ctx context.Context, userID, placeID string) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, deleteFavoriteStmt, userID, placeID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s for user %s: %w", placeID, userID, err)
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
