package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/controllers"
	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/metrics"
	"github.com/aditwicaksono/warung-pos-api/middleware"
	"github.com/aditwicaksono/warung-pos-api/models"
	"github.com/aditwicaksono/warung-pos-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger := logger.GetLogger()
	defer zapLogger.Sync()
	zapLogger.Info("Starting Warung POS API server", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(); err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryLog{},
	); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	metrics.Init(cfg.MetricsPrefix)

	if cfg.AWSS3Bucket != "" {
		storage, err := services.InitS3ImageStorage()
		if err != nil {
			zapLogger.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		services.SetImageStorage(storage)
		zapLogger.Info("Image storage initialized", zap.String("bucket", cfg.AWSS3Bucket))
	} else {
		zapLogger.Warn("AWS_S3_BUCKET not set, product image uploads disabled")
	}

	if cfg.BotAPIKey == "" {
		zapLogger.Warn("BOT_API_KEY not set, bot endpoints disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	zapLogger.Info("Server is running", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

// setupRouter builds the full route tree. Split out from main so tests
// can drive the real middleware chain against an in-memory database.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-KEY"},
		AllowCredentials: true,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/auth/login", controllers.Login)

		// Authenticated dashboard routes
		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(cfg))
		{
			authed.GET("/auth/me", controllers.Me)

			authed.GET("/categories", controllers.ListCategories)
			authed.GET("/categories/:id", controllers.GetCategory)

			authed.GET("/products", controllers.ListProducts)
			authed.GET("/products/low-stock", controllers.ListLowStockProducts)
			authed.GET("/products/:id", controllers.GetProduct)

			authed.POST("/orders", controllers.CreateOrder)
			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/:id", controllers.GetOrder)
			authed.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)

			authed.POST("/inventory/stock-in", controllers.StockIn)
			authed.GET("/inventory/logs/:product_id", controllers.ListInventoryLogs)

			authed.GET("/reports/dashboard", controllers.GetDashboardSummary)
			authed.GET("/reports/sales", controllers.GetSalesReport)
		}

		// Admin-only management routes
		admin := v1.Group("")
		admin.Use(middleware.RequireAuth(cfg), middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/auth/register", controllers.Register)

			admin.GET("/users", controllers.ListUsers)
			admin.GET("/users/:id", controllers.GetUser)
			admin.PUT("/users/:id", controllers.UpdateUser)
			admin.DELETE("/users/:id", controllers.DeactivateUser)

			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)
			admin.DELETE("/categories/:id", controllers.DeleteCategory)

			admin.POST("/products", controllers.CreateProduct)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)
			admin.POST("/products/:id/image", controllers.UploadProductImage)
			admin.DELETE("/products/:id/image", controllers.DeleteProductImage)

			admin.POST("/inventory/adjustment", controllers.AdjustStock)
		}

		// Bot gateway routes, authenticated with a shared API key
		bot := v1.Group("/bot")
		bot.Use(middleware.RequireBotAPIKey(cfg))
		{
			bot.POST("/command", controllers.ProcessBotCommand)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Warung POS API is running",
	})
}
