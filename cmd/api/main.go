package main

import (
	"log"
	"os"

	_ "goldloan/api/swagger" // swagger docs
	"goldloan/internal/database"
	"goldloan/internal/handler"
	"goldloan/internal/middleware"
	"goldloan/internal/repository"
	"goldloan/internal/service"
	"goldloan/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Gold Loan Back Office API
// @version         1.0
// @description     Back-office API for gold loan billing, renewals, takeovers and the cash vault ledger.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "goldloan"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub for gold price broadcasts
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	renewalRepo := repository.NewRenewalRepository(db)
	takeoverRepo := repository.NewTakeoverRepository(db)
	cashRepo := repository.NewCashRepository(db)
	goldPriceRepo := repository.NewGoldPriceRepository(db)

	txManager := repository.NewTransactionManager(db)
	allocator := service.NewSequenceAllocator(sequenceRepo)

	userService := service.NewUserService(userRepo)
	cashService := service.NewCashService(cashRepo)
	billingService := service.NewBillingService(billingRepo, sequenceRepo, allocator, cashService, txManager)
	renewalService := service.NewRenewalService(renewalRepo, sequenceRepo, allocator, cashService, txManager)
	takeoverService := service.NewTakeoverService(takeoverRepo, sequenceRepo, allocator, cashService, txManager)
	goldPriceService := service.NewGoldPriceService(goldPriceRepo, wsHub)

	loginLimiter := middleware.NewLoginRateLimiter(middleware.DefaultRateLimiterConfig())

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, loginLimiter)
	billingHandler := handler.NewBillingHandler(billingService)
	renewalHandler := handler.NewRenewalHandler(renewalService)
	takeoverHandler := handler.NewTakeoverHandler(takeoverService)
	cashHandler := handler.NewCashHandler(cashService)
	goldPriceHandler := handler.NewGoldPriceHandler(goldPriceService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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

	// WebSocket endpoint for live gold price updates
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	billingHandler.RegisterRoutes(router.Group(""))
	renewalHandler.RegisterRoutes(router.Group(""))
	takeoverHandler.RegisterRoutes(router.Group(""))
	cashHandler.RegisterRoutes(router.Group(""))
	goldPriceHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
