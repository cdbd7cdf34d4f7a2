package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"farmmarket/internal/caching"
	"farmmarket/internal/handlers"
	"farmmarket/internal/jobs/background"
	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/repositories"
	"farmmarket/internal/services"
	"farmmarket/pkg/database"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using generated secret")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Repositories
	attributeRepo := repositories.NewAttributeRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool, attributeRepo)
	userRepo := repositories.NewUserRepo(pool)
	userEventRepo := repositories.NewUserEventRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Services
	categorySvc := services.NewCategoryService(categoryRepo, attributeRepo, cacheSvc)
	productSvc := services.NewProductService(productRepo, userRepo, categoryRepo, minioSvc, cacheSvc)
	userSvc := services.NewUserService(userRepo, userEventRepo)
	authSvc := services.NewAuthService(userRepo, jwtSecret)
	orderSvc := services.NewOrderService(orderRepo, productRepo, userRepo)

	// Handlers
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	attributeHandlers := handlers.NewAttributeHandlers(attributeRepo)
	productHandlers := handlers.NewProductHandlers(productSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, version)

	scheduler, err := background.NewJobScheduler(categorySvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
	verifyToken := echojwt.WithConfig(jwtConfig)
	authRequired := middleware.ClaimsToContext()
	moderators := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator)

	e.GET("/health", healthHandlers.HealthCheck)

	e.POST("/auth/register", authHandlers.Register)
	e.POST("/auth/login", authHandlers.Login)

	categories := e.Group("/categories")
	categories.GET("", categoryHandlers.ListCategories)
	categories.GET("/:id", categoryHandlers.GetCategory)
	categories.GET("/:categoryId/hierarchy", categoryHandlers.GetCategoryHierarchy)
	categories.POST("", categoryHandlers.CreateCategory)
	categories.PUT("/:id", categoryHandlers.UpdateCategory, verifyToken, authRequired, moderators)
	categories.DELETE("/:id", categoryHandlers.DeleteCategory, verifyToken, authRequired, moderators)

	attributes := e.Group("/attributes", verifyToken, authRequired, moderators)
	attributes.PUT("/:id", attributeHandlers.UpdateAttribute)
	attributes.DELETE("/:id", attributeHandlers.DeleteAttribute)

	products := e.Group("/products")
	products.GET("", productHandlers.ListProducts)
	products.GET("/:id", productHandlers.GetProduct)
	products.GET("/:id/image", productHandlers.GetProductImageURL)
	products.POST("", productHandlers.CreateProduct, verifyToken, authRequired)
	products.PUT("/:id", productHandlers.UpdateProduct, verifyToken, authRequired)
	products.DELETE("/:id", productHandlers.DeleteProduct, verifyToken, authRequired)
	products.POST("/:id/image", productHandlers.UploadProductImage, verifyToken, authRequired)

	users := e.Group("/users")
	users.GET("", userHandlers.ListUsers)
	users.GET("/:id", userHandlers.GetUser)
	users.PUT("/:id", userHandlers.UpdateUser, verifyToken, authRequired)
	users.DELETE("/:id", userHandlers.DeleteUser, verifyToken, authRequired)
	users.POST("/:userId/events", userHandlers.AddUserEvent, verifyToken, authRequired)
	users.DELETE("/:userId/events", userHandlers.RemoveUserEvent, verifyToken, authRequired)
	users.GET("/:userId/events", userHandlers.ListUserEvents)

	orders := e.Group("/orders")
	orders.GET("", orderHandlers.ListOrders)
	orders.GET("/:id", orderHandlers.GetOrder)
	orders.GET("/user/:id", orderHandlers.ListOrdersByUser)
	orders.POST("", orderHandlers.CreateOrder, verifyToken, authRequired)
	orders.PUT("/:id", orderHandlers.UpdateOrder, verifyToken, authRequired)
	orders.DELETE("/:id", orderHandlers.DeleteOrder, verifyToken, authRequired)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
