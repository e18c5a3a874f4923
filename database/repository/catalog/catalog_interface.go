package catalogRepo

import (
	"context"
	"errors"

	"towgo/models"
)

// ErrNotFound is returned when no active service has the requested ID.
var ErrNotFound = errors.New("service not found")

// CatalogRepository defines read access to the premium service catalog.
type CatalogRepository interface {
	// ListActive returns every active service ordered by price.
	ListActive(ctx context.Context) ([]models.Service, error)
	// GetByID returns one active service.
	GetByID(ctx context.Context, id string) (*models.Service, error)
}
