package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookstore/bookstore-api/docs"
	"github.com/bookstore/bookstore-api/internal/api/handler"
	"github.com/bookstore/bookstore-api/internal/api/middleware"
	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Accounts ports.AccountService
	Books    ports.BookService
	Reviews  ports.ReviewService
	Tokens   ports.TokenValidator

	// Health lists the dependencies checked by /health/ready.
	Health []handler.Dependency

	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil
	// selects the default Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "bookstore",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))
	e.Use(middleware.Authenticate(d.Tokens, d.Accounts, d.Log))
	e.Use(middleware.Policy())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Accounts)
	bookHandler := handler.NewBookHandler(d.Books)
	reviewHandler := handler.NewReviewHandler(d.Reviews)
	adminHandler := handler.NewAdminHandler(d.Accounts)
	healthHandler := handler.NewHealthHandler(d.Health...)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/auth/signup", authHandler.Signup)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Book routes, served both bare and under /authenticated ---
	for _, prefix := range []string{"", "/authenticated"} {
		books := e.Group(prefix + "/book")
		books.POST("/save", bookHandler.Save, adminOnly)
		books.GET("/all-books", bookHandler.AllBooks)
		books.GET("/search", bookHandler.Search)
		books.GET("/top", bookHandler.Top)
	}

	// --- Review routes ---
	reviews := e.Group("/authenticated/review")
	reviews.POST("/write/:book_id", reviewHandler.Write)
	reviews.GET("/get-reviews-of/:book_id", reviewHandler.List)

	// --- Admin routes ---
	admin := e.Group("/admin", adminOnly)
	admin.POST("/book/save", bookHandler.Save)
	admin.DELETE("/users/:username", adminHandler.DeleteUser)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
