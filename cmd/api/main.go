package main

import (
	"os"

	_ "github.com/MikeMikeRx/my-crm-app-sub000/api/swagger" // swagger docs
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/database"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/handler"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/logger"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/middleware"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/repository"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/service"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Invoicing API
// @version         1.0
// @description     REST API for managing customers, quotes, invoices, and payments.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info().Msg("no configs/.env file found")
	}
	logger.Setup()

	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	dbUser := getenv("DB_USER", "postgres")
	dbPassword := getenv("DB_PASSWORD", "postgres")
	dbName := getenv("DB_NAME", "postgres")
	dbSslMode := getenv("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	userService := service.NewUserService(userRepo)
	customerService := service.NewCustomerService(customerRepo)
	quoteService := service.NewQuoteService(quoteRepo, invoiceRepo, customerRepo, txManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, quoteRepo, paymentRepo, txManager, wsHub)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, wsHub)
	statisticsService := service.NewStatisticsService(quoteRepo, invoiceRepo, paymentRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	customerHandler := handler.NewCustomerHandler(customerService)
	quoteHandler := handler.NewQuoteHandler(quoteService, invoiceService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	customerHandler.RegisterRoutes(router.Group(""))
	quoteHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	paymentHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	port := getenv("PORT", "8080")
	log.Info().Str("port", port).Msg("server listening")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
