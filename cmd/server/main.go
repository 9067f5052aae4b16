package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/belugagoods/storefront-backend/config"
	"github.com/belugagoods/storefront-backend/internal/app/controller"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/belugagoods/storefront-backend/internal/cache"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"github.com/belugagoods/storefront-backend/internal/db"
	"github.com/belugagoods/storefront-backend/internal/events"
	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/belugagoods/storefront-backend/internal/router"
	"github.com/belugagoods/storefront-backend/internal/scheduler"
	"github.com/belugagoods/storefront-backend/internal/storage"
	"github.com/belugagoods/storefront-backend/internal/websocket"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	redisClient "github.com/belugagoods/storefront-backend/pkg/redis"
	"github.com/belugagoods/storefront-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})

	logger.Info("Starting Beluga Goods Backend Server", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"log_level":     logLevel,
		"auth_provider": cfg.Auth.Provider,
		"client_state":  cfg.ClientState.Backend,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (카테고리 분류 체계 포함)
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis (optional)
	var revoker *redisClient.Blacklist
	if cfg.Redis.Enabled {
		if err := redisClient.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		revoker = redisClient.NewBlacklist(redisClient.GetClient())
	} else {
		logger.Warn("Redis disabled: logout only clears tokens on the client")
	}

	bus := events.NewBus()
	m := metrics.New()

	// Client state (cart, preferences, search history)
	var backend clientstate.Backend
	switch cfg.ClientState.Backend {
	case "redis":
		backend = clientstate.NewRedisBackend(redisClient.GetClient(), 0)
	default:
		bolt, err := clientstate.NewBoltBackend(cfg.ClientState.BoltPath)
		if err != nil {
			logger.Fatal("Failed to open client state store", err, map[string]interface{}{
				"path": cfg.ClientState.BoltPath,
			})
		}
		backend = bolt
	}
	store := clientstate.NewStore(backend, bus)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close client state store", err)
		}
	}()

	// Response cache
	var responseCache cache.Cache
	if cfg.Cache.UseRedis {
		responseCache = cache.NewRedisCache(redisClient.GetClient())
	} else {
		lru, err := cache.NewLRUCache(cfg.Cache.LRUSize)
		if err != nil {
			logger.Fatal("Failed to create response cache", err)
		}
		responseCache = lru
	}

	// S3 is optional; uploads and template downloads answer 503 without it
	var (
		uploader controller.Uploader
		signer   service.URLSigner
	)
	if cfg.S3.Bucket != "" {
		s3 := storage.NewS3Storage(cfg.S3)
		uploader = s3
		signer = s3
	} else {
		logger.Warn("AWS_S3_BUCKET not set: uploads and template downloads are disabled")
	}

	numbers, err := util.NewOrderNumberGenerator(cfg.Server.NodeID)
	if err != nil {
		logger.Fatal("Failed to create order number generator", err)
	}

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	communityRepo := repository.NewCommunityRepository(database)
	templateRepo := repository.NewTemplateRepository(database)
	designRepo := repository.NewDesignRepository(database)
	inquiryRepo := repository.NewInquiryRepository(database)

	// Initialize services
	issuer := service.TokenIssuer{
		Secret:        cfg.JWT.Secret,
		AccessExpiry:  cfg.JWT.AccessTokenExpiry,
		RefreshExpiry: cfg.JWT.RefreshTokenExpiry,
	}
	var authenticator service.Authenticator
	if cfg.Auth.Provider == "mock" {
		logger.Warn("Using mock authentication (admin / 12345)")
		authenticator = service.NewMockAuthenticator(userRepo, issuer)
	} else {
		authenticator = service.NewDatabaseAuthenticator(userRepo, issuer)
	}
	var tokenRevoker service.TokenRevoker
	var revocationChecker middleware.RevocationChecker
	if revoker != nil {
		tokenRevoker = revoker
		revocationChecker = revoker
	}

	authService := service.NewAuthService(authenticator, issuer, tokenRevoker)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	productSheet := service.NewProductSheet(productRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	cartService := service.NewCartService(store, productService, m)
	orderService := service.NewOrderService(orderRepo, store, numbers, m)
	communityService := service.NewCommunityService(communityRepo)
	templateService := service.NewTemplateService(templateRepo, signer)
	designService := service.NewDesignService(designRepo)
	preferenceService := service.NewPreferenceService(store)
	inquiryService := service.NewInquiryService(inquiryRepo)
	adminService := service.NewAdminService(cfg.Admin.Password)
	if !adminService.Enabled() {
		logger.Warn("ADMIN_PASSWORD not set: admin login is disabled")
	}

	// WebSocket hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := websocket.NewHub()
	go hub.Run(ctx)
	unsubscribe, err := hub.Subscribe(bus)
	if err != nil {
		logger.Fatal("Failed to subscribe hub to cart events", err)
	}
	defer unsubscribe()

	// Scheduler
	templateScheduler := scheduler.NewTemplateStatusScheduler(templateService, cfg.Scheduler)
	if err := templateScheduler.Start(); err != nil {
		logger.Fatal("Failed to start template status scheduler", err)
	}
	defer templateScheduler.Stop()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revocationChecker)
	adminSessions := middleware.NewAdminSessions(cfg.Admin)

	// Setup router
	r := router.NewRouter(
		router.Controllers{
			Auth:       controller.NewAuthController(authService),
			Category:   controller.NewCategoryController(categoryService),
			Product:    controller.NewProductController(productService, productSheet),
			Review:     controller.NewReviewController(reviewService),
			Cart:       controller.NewCartController(cartService),
			Order:      controller.NewOrderController(orderService),
			Community:  controller.NewCommunityController(communityService),
			Template:   controller.NewTemplateController(templateService),
			Design:     controller.NewDesignController(designService),
			Preference: controller.NewPreferenceController(preferenceService),
			Inquiry:    controller.NewInquiryController(inquiryService),
			Admin:      controller.NewAdminController(adminService, adminSessions),
			Upload:     controller.NewUploadController(uploader),
			WebSocket:  controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins),
		},
		authMiddleware,
		adminSessions,
		responseCache,
		m,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	bus.WaitAsync()
	logger.Info("Server stopped successfully")
}
