package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"towgo/config"
	"towgo/database"
	catalogRepo "towgo/database/repository/catalog"
	favoriteRepo "towgo/database/repository/favorite"
	paymentRepo "towgo/database/repository/payment"
	shareRepo "towgo/database/repository/share"
	userRepo "towgo/database/repository/user"
	"towgo/handlers"
	"towgo/middleware"
	"towgo/routes"
	"towgo/services/enhance"
	"towgo/services/favorites"
	"towgo/services/payment"
	"towgo/services/places"
	"towgo/services/share"
	"towgo/services/smithery"
	"towgo/services/websearch"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zap.L().Fatal("main: failed to load config", zap.Error(err))
	}
	logger, err := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		zap.L().Fatal("main: failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty; protected routes will reject every token")
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Stores.
	db, err := database.ConnectPostgres(rootCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("main: failed to connect to Postgres", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(rootCtx, db); err != nil {
		logger.Fatal("main: failed to migrate Postgres", zap.Error(err))
	}

	mongoClient, err := database.ConnectMongo(rootCtx, cfg.MongoURL)
	if err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	// Redis only backs caches; run without it when unreachable.
	cache, err := utils.NewCacheClient(rootCtx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable; caching disabled", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
	}

	health := utils.NewHealthMonitor(db, mongoClient, cache)
	health.Start(rootCtx, 30*time.Second)

	// Repositories.
	usrRepo := userRepo.NewPostgresUserRepo(db)
	favRepo := favoriteRepo.NewPostgresFavoriteRepo(db)
	catRepo := catalogRepo.NewPostgresCatalogRepo(db)
	payRepo := paymentRepo.NewPostgresPaymentRepo(db)
	shRepo := shareRepo.NewMongoShareRepo(mongoClient.Database(cfg.MongoDB).Collection(shareRepo.CollectionName))
	if err := shRepo.EnsureIndexes(rootCtx); err != nil {
		logger.Fatal("main: failed to create location share indexes", zap.Error(err))
	}

	// Services.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}

	var maps places.MapsClient
	if cfg.GoogleAPIKey != "" {
		maps = places.NewGoogleClient(cfg.GoogleAPIKey, places.DefaultMapsBaseURL, httpClient)
	} else {
		logger.Warn("GOOGLE_API_KEY is empty; business search is disabled")
	}
	placesSvc := places.NewService(maps, logger.Named("places"))

	enhancer := enhance.NewService(enhance.Config{
		APIKey:  cfg.PerplexityAPIKey,
		BaseURL: cfg.PerplexityBaseURL,
		Model:   cfg.PerplexityModel,
		Timeout: cfg.HTTPTimeout(),
	}, enhance.NewCache(cache, cfg.CacheTTL()), logger.Named("enhance"))

	searchCfg := websearch.CustomSearchConfig{
		APIKey:   cfg.SearchAPIKey,
		EngineID: cfg.SearchEngineID,
		BaseURL:  cfg.SearchAPIBaseURL,
	}
	var providers []websearch.Provider
	if searchCfg.Configured() {
		providers = append(providers,
			websearch.NewCustomSearchProvider(searchCfg, httpClient),
			websearch.NewSocialProvider(searchCfg, httpClient))
	}
	if cfg.DirectoryURLTemplate != "" {
		providers = append(providers, websearch.NewDirectoryProvider(websearch.DirectoryConfig{
			URLTemplate: cfg.DirectoryURLTemplate,
		}, httpClient))
	}
	aggregator := websearch.NewAggregator(logger.Named("websearch"), cfg.HTTPTimeout(), providers...)

	favSvc := favorites.NewService(favRepo, cache, cfg.CacheTTL(), logger.Named("favorites"))
	shareSvc := share.NewService(shRepo, logger.Named("share"))

	gateway := payment.NewStripeGateway(cfg.StripeKey)
	if gateway == nil {
		logger.Warn("STRIPE_KEY is empty; checkout is disabled")
	}
	paySvc := payment.NewService(catRepo, payRepo, gateway, cfg.StripeWebhookSecret, logger.Named("payment"))

	registry := smithery.NewClient(smithery.Config{
		APIKey:  cfg.SmitheryAPIKey,
		BaseURL: cfg.SmitheryBaseURL,
		Timeout: cfg.HTTPTimeout(),
	}, logger.Named("smithery"))

	// Handlers.
	healthHandler := handlers.NewHealthHandler(health)
	searchHandler := handlers.NewSearchHandler(placesSvc, enhancer, aggregator)
	favHandler := handlers.NewFavoritesHandler(favSvc)
	shareHandler := handlers.NewShareHandler(shareSvc)
	checkoutHandler := handlers.NewCheckoutHandler(paySvc)
	smitheryHandler := handlers.NewSmitheryHandler(registry)

	handlerBundle := &handlers.HandlerBundle{
		Tokens:      utils.NewTokenManager(cfg.JWTSecret),
		UserRepo:    usrRepo,
		Locator:     middleware.NewIPLocator(cfg.GeoIPBaseURL, cfg.HTTPTimeout(), logger.Named("geoip")),
		SearchGuard: middleware.NewSearchGuard(),

		HealthHandler: healthHandler.Health,

		// Search endpoints.
		SearchHandler:          searchHandler.SearchBusinesses,
		RecommendationsHandler: searchHandler.Recommendations,
		WebSearchHandler:       searchHandler.WebSearch,
		EnhanceQueryHandler:    searchHandler.EnhanceQuery,

		// Location share endpoints.
		CreateShareHandler: shareHandler.CreateShare,
		GetShareHandler:    shareHandler.GetShare,

		// Favorites endpoints.
		ListFavoritesHandler:  favHandler.ListFavorites,
		AddFavoriteHandler:    favHandler.AddFavorite,
		RemoveFavoriteHandler: favHandler.RemoveFavorite,
		CheckFavoriteHandler:  favHandler.CheckFavorite,

		// Catalog and checkout endpoints.
		ListServicesHandler:   checkoutHandler.ListServices,
		GetServiceHandler:     checkoutHandler.GetService,
		CreateCheckoutHandler: checkoutHandler.CreateCheckout,
		StripeWebhookHandler:  checkoutHandler.StripeWebhook,

		// Registry endpoints.
		ListServersHandler: smitheryHandler.ListServers,
		GetServerHandler:   smitheryHandler.GetServer,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
