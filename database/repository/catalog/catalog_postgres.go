package catalogRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"towgo/models"
	"towgo/utils"
)

const (
	serviceColumns    = `id, name, description, price_cents, currency, stripe_price_id, active`
	listServicesQuery  = `SELECT ` + serviceColumns + ` FROM services WHERE active = true ORDER BY price_cents ASC, id ASC`
	getServiceQuery    = `SELECT ` + serviceColumns + ` FROM services WHERE id = $1 AND active = true`
)

// PostgresCatalogRepo implements CatalogRepository using Postgres.
type PostgresCatalogRepo struct {
	db *sql.DB
}

// NewPostgresCatalogRepo creates a new instance of CatalogRepository using Postgres.
func NewPostgresCatalogRepo(db *sql.DB) CatalogRepository {
	return &PostgresCatalogRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (models.Service, error) {
	var s models.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.PriceCents, &s.Currency, &s.StripePriceID, &s.Active)
	return s, err
}

// ListActive returns every active service.
func (r *PostgresCatalogRepo) ListActive(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listServicesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}
	return services, nil
}

// GetByID returns one active service or ErrNotFound.
func (r *PostgresCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	s, err := scanService(r.db.QueryRowContext(ctx, getServiceQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service %s: %w", id, err)
	}
	return &s, nil
}
