package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopeasy/product-store/internal/api/handler"
	"github.com/shopeasy/product-store/internal/api/middleware"
	"github.com/shopeasy/product-store/internal/core/ports"
	"github.com/shopeasy/product-store/internal/core/service"
	mongodb "github.com/shopeasy/product-store/internal/infrastructure/db/mongo"
	"github.com/shopeasy/product-store/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// publisher may be nil when no event brokers are configured.
func NewRouter(db *mongo.Database, rdb *redis.Client, publisher ports.EventPublisher, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("store"))

	// --- Dependencies ---
	productRepo := mongodb.NewProductRepository(db)
	productService := service.NewProductService(productRepo, publisher, log)
	productHandler := handler.NewProductHandler(productService)

	authRepo := mongodb.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, jwtSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Product routes ---
	// Reads are public; every mutating route goes through the auth gate.
	e.GET("/api/getproduct", productHandler.List)
	e.POST("/api/postProduct", productHandler.Create, authMiddleware)
	e.PUT("/api/updateProduct/:id", productHandler.Update, authMiddleware)
	e.DELETE("/api/deleteProduct/:id", productHandler.Delete, authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
