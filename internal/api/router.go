package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/imagevision/vision-api/docs"
	"github.com/imagevision/vision-api/internal/api/handler"
	"github.com/imagevision/vision-api/internal/api/middleware"
	"github.com/imagevision/vision-api/internal/core/ports"
)

// RouterDeps carries the constructed services the router wires to routes.
type RouterDeps struct {
	AuthService     ports.AuthService
	ClassifyService ports.ClassifyService
	MongoDB         *mongo.Database
	Redis           *redis.Client
	MaxUploadBytes  int64
	Logger          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("vision"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	mlHandler := handler.NewMLHandler(deps.ClassifyService, deps.MaxUploadBytes)
	userHandler := handler.NewUserHandler(deps.ClassifyService)
	requireAuth := middleware.Auth(deps.AuthService)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	// Logout verifies its own token; the middleware would reject the very
	// tokens logout needs to report on (expired, revoked) with less detail.
	v1.POST("/auth/logout", authHandler.Logout)

	// --- Protected routes ---
	v1.POST("/ml/predict", mlHandler.Predict, requireAuth)
	v1.GET("/users/me", userHandler.Me, requireAuth)
	v1.GET("/users/me/history", userHandler.History, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.MongoDB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
