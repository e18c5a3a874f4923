package handlers

import (
	"context"

	"towgo/models"
	"towgo/services/degrade"
	"towgo/services/payment"
	"towgo/utils"
)

// PlacesSearcher runs nearby business searches.
type PlacesSearcher interface {
	Search(ctx context.Context, params models.SearchParams, fallback *models.LatLng) ([]models.Business, error)
}

// QueryEnhancer rewrites queries and suggests categories.
type QueryEnhancer interface {
	EnhanceSearchQuery(ctx context.Context, query, location string) degrade.Result[models.PerplexityResult]
	GenerateRecommendations(ctx context.Context, preferences []string, location string) degrade.Result[[]string]
}

// WebSearcher aggregates web listings.
type WebSearcher interface {
	Search(ctx context.Context, req models.WebSearchRequest) (degrade.Result[models.WebSearchResult], error)
}

// FavoritesService manages saved businesses.
type FavoritesService interface {
	Add(ctx context.Context, userID string, b models.Business) (*models.Favorite, bool, error)
	Remove(ctx context.Context, userID, placeID string) error
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	IsFavorite(ctx context.Context, userID, placeID string) (bool, error)
}

// ShareService manages location shares.
type ShareService interface {
	Create(ctx context.Context, userID string, req models.ShareRequest) (*models.LocationShare, error)
	Get(ctx context.Context, shareID string) (*models.LocationShare, error)
}

// PaymentService exposes the catalog and checkout.
type PaymentService interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	CreateCheckout(ctx context.Context, userID string, req models.CheckoutRequest) (*payment.CheckoutResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// RegistryClient reads the Smithery registry.
type RegistryClient interface {
	ListServers(ctx context.Context, query string, page, pageSize int) degrade.Result[models.SmitheryServerList]
	GetServer(ctx context.Context, qualifiedName string) (*models.SmitheryServer, error)
}

// HealthReporter returns the latest dependency snapshot.
type HealthReporter interface {
	Status() utils.HealthStatus
}
