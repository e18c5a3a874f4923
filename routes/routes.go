package routes

import (
	"time"

	"towgo/handlers"
	"towgo/middleware"
	"towgo/observability"
	"towgo/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers liveness and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(observability.Handler()))
}

// RegisterSearchRoutes registers the public search endpoints.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		// Only the places search needs a fallback location.
		api.GET("/search",
			hb.SearchGuard.Middleware(),
			middleware.GeolocationMiddleware(hb.Locator),
			hb.SearchHandler)
		api.GET("/websearch", hb.SearchGuard.Middleware(), hb.WebSearchHandler)
		api.GET("/recommendations", hb.RecommendationsHandler)
		api.GET("/perplexity", hb.EnhanceQueryHandler)
	}
}

// RegisterShareRoutes registers location-share endpoints. Reading a share is public.
func RegisterShareRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/location-share")
	{
		api.GET("/:shareId", hb.GetShareHandler)
		api.POST("", middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo), hb.CreateShareHandler)
	}
}

// RegisterFavoritesRoutes registers the per-user favorites endpoints.
func RegisterFavoritesRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/favorites")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo))
		api.GET("", hb.ListFavoritesHandler)
		api.POST("", hb.AddFavoriteHandler)
		api.GET("/:placeId", hb.CheckFavoriteHandler)
		api.DELETE("/:placeId", hb.RemoveFavoriteHandler)
	}
}

// RegisterPaymentRoutes registers catalog, checkout and the Stripe webhook.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/services/:id", hb.GetServiceHandler)
		api.POST("/stripe/webhook", hb.StripeWebhookHandler)
		api.POST("/checkout", middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo), hb.CreateCheckoutHandler)
	}
}

// RegisterSmitheryRoutes registers registry lookups.
func RegisterSmitheryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/smithery")
	{
		api.GET("/servers", hb.ListServersHandler)
		api.GET("/servers/*name", hb.GetServerHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", utils.DegradedHeader},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoutes(r, hb)
	RegisterSearchRoutes(r, hb)
	RegisterShareRoutes(r, hb)
	RegisterFavoritesRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterSmitheryRoutes(r, hb)
}
