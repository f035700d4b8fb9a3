package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"stock-service/internal/config"
	"stock-service/internal/events"
	"stock-service/internal/handlers"
	"stock-service/internal/middleware"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"stock-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.Society{},
		&models.User{},
		&models.Membership{},
		&models.StockItemKind{},
		&models.StockItem{},
		&models.Drawer{},
		&models.DrawerPlacement{},
		&models.Movement{},
		&models.ObjectUser{},
		&models.Usage{},
		&models.RefillSchedule{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// NATS event publisher is optional; the service degrades gracefully
	// without a broker.
	var eventPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("Connected to NATS JetStream for event publishing")
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	// Repositories
	societyRepo := repository.NewSocietyRepository(db)
	stockRepo := repository.NewStockRepository(db)

	// Services
	authService := services.NewAuthService(societyRepo)
	societyService := services.NewSocietyService(societyRepo)
	membershipService := services.NewMembershipService(societyRepo)
	stockService := services.NewStockService(stockRepo, eventPublisher)
	refillService := services.NewRefillService(stockRepo, eventPublisher)

	// Handlers
	authHandler := handlers.NewAuthHandler(societyService, authService, societyRepo, cfg.JWTSecret, cfg.JWTTTL)
	societyHandler := handlers.NewSocietyHandler(societyService, stockService)
	memberHandler := handlers.NewMemberHandler(membershipService)
	stockHandler := handlers.NewStockHandler(stockRepo, societyRepo, stockService, cfg.DefaultPageSize, cfg.MaxPageSize)
	drawerHandler := handlers.NewDrawerHandler(stockRepo, societyRepo)
	usageHandler := handlers.NewUsageHandler(stockRepo, stockService, cfg.DefaultPageSize, cfg.MaxPageSize)
	refillHandler := handlers.NewRefillHandler(refillService)
	exportHandler := handlers.NewExportHandler(stockRepo)
	healthHandler := handlers.NewHealthHandler(db, eventPublisher)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics("stock-service"))
	router.Use(middleware.CORS())

	// Probes and metrics (no auth)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.POST("/societies", authHandler.RegisterSociety)
		public.POST("/auth/login", authHandler.Login)
	}

	// Authenticated routes; the society scope comes from the token
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/auth/me", authHandler.Me)

		api.GET("/society", societyHandler.GetSociety)
		api.GET("/dashboard", societyHandler.Dashboard)

		api.GET("/stock-item-kinds", stockHandler.ListKinds)

		items := api.Group("/stock-items")
		{
			items.POST("", stockHandler.CreateStockItem)
			items.GET("", stockHandler.ListStockItems)
			items.GET("/:id", stockHandler.GetStockItem)
			items.PUT("/:id", stockHandler.UpdateStockItem)
			items.DELETE("/:id", stockHandler.DeleteStockItem)
			items.GET("/:id/placements", drawerHandler.ListItemPlacements)
			items.GET("/export", exportHandler.ExportStockItems)
		}

		stock := api.Group("/stock")
		{
			stock.POST("/in", stockHandler.StockIn)
			stock.POST("/out", stockHandler.StockOut)
		}

		movements := api.Group("/movements")
		{
			movements.GET("", stockHandler.ListMovements)
			movements.GET("/export", exportHandler.ExportMovements)
		}

		api.GET("/drawers", drawerHandler.ListDrawers)
		api.GET("/object-users", usageHandler.ListObjectUsers)

		usages := api.Group("/usages")
		{
			usages.POST("", usageHandler.LogUsage)
			usages.GET("", usageHandler.ListUsages)
		}

		refills := api.Group("/refills")
		{
			refills.POST("", refillHandler.CreateSchedule)
			refills.GET("", refillHandler.ListSchedules)
			refills.GET("/prediction", refillHandler.Prediction)
			refills.GET("/:id", refillHandler.GetSchedule)
			refills.POST("/:id/complete", refillHandler.CompleteSchedule)
		}

		// Admin-only catalog and society management
		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.PUT("/society/settings", societyHandler.UpdateSettings)
			admin.PUT("/society/subscription", societyHandler.ChangeSubscription)

			admin.POST("/stock-item-kinds", stockHandler.CreateKind)
			admin.PUT("/stock-item-kinds/:id", stockHandler.UpdateKind)
			admin.DELETE("/stock-item-kinds/:id", stockHandler.DeleteKind)

			admin.POST("/drawers", drawerHandler.CreateDrawer)
			admin.PUT("/drawers/:id", drawerHandler.UpdateDrawer)
			admin.DELETE("/drawers/:id", drawerHandler.DeleteDrawer)

			admin.POST("/placements", drawerHandler.AssignPlacement)
			admin.DELETE("/placements/:id", drawerHandler.DeletePlacement)

			admin.POST("/object-users", usageHandler.CreateObjectUser)
			admin.PUT("/object-users/:id", usageHandler.UpdateObjectUser)
			admin.DELETE("/object-users/:id", usageHandler.DeleteObjectUser)

			members := admin.Group("/members")
			{
				members.GET("", memberHandler.ListMembers)
				members.POST("", memberHandler.CreateMember)
				members.PUT("/:id", memberHandler.UpdateMember)
				members.DELETE("/:id", memberHandler.DeleteMember)
			}
		}
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Stock service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down stock-service...")
	log.Println("Stock service stopped")
}
