package handlers

import (
	userRepo "towgo/database/repository/user"
	"towgo/middleware"
	"towgo/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the per-route middleware dependencies.
type HandlerBundle struct {
	Tokens      *utils.TokenManager
	UserRepo    userRepo.UserRepository
	Locator     *middleware.IPLocator
	SearchGuard *middleware.SearchGuard

	// Health endpoint
	HealthHandler gin.HandlerFunc

	// Search endpoints
	SearchHandler          gin.HandlerFunc
	RecommendationsHandler gin.HandlerFunc
	WebSearchHandler       gin.HandlerFunc
	EnhanceQueryHandler    gin.HandlerFunc

	// Location share endpoints
	CreateShareHandler gin.HandlerFunc
	GetShareHandler    gin.HandlerFunc

	// Favorites endpoints
	ListFavoritesHandler  gin.HandlerFunc
	AddFavoriteHandler    gin.HandlerFunc
	RemoveFavoriteHandler gin.HandlerFunc
	CheckFavoriteHandler  gin.HandlerFunc

	// Catalog and checkout endpoints
	ListServicesHandler   gin.HandlerFunc
	GetServiceHandler     gin.HandlerFunc
	CreateCheckoutHandler gin.HandlerFunc
	StripeWebhookHandler  gin.HandlerFunc

	// Registry endpoints
	ListServersHandler gin.HandlerFunc
	GetServerHandler   gin.HandlerFunc
}
