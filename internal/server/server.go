// Package server assembles the HTTP application.
package server

import (
	"time"

	"pasar/internal/handlers"
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the application is built from.
type Deps struct {
	Store     repositories.Store
	Publisher services.EventPublisher
	JWTSecret string
	JWTTTL    time.Duration
	Logger    *zap.Logger
	// Registry receives the HTTP metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// App is the assembled HTTP application plus the services it exposes.
type App struct {
	*fiber.App
	Auth *services.AuthService
}

// New wires services, handlers and middleware into a Fiber app.
func New(deps Deps) *App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
	}

	// --- Services ---
	authService := services.NewAuthService(deps.Store.Users(), deps.JWTSecret, deps.JWTTTL)
	userService := services.NewUserService(deps.Store.Users(), log)
	categoryService := services.NewCategoryService(deps.Store.Categories())
	listingService := services.NewListingService(deps.Store.Listings(), deps.Store.Categories(), log)
	orderService := services.NewOrderService(deps.Store, deps.Publisher, log)
	transitionService := services.NewOrderTransitionService(deps.Store, deps.Publisher, log)
	reviewService := services.NewReviewService(deps.Store, log)

	// --- Fiber app and middleware ---
	app := fiber.New(fiber.Config{AppName: "pasar"})
	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}
	app.Use(middleware.NewMetrics(reg).Handler())

	auth := middleware.AuthRequired(authService, log)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	sellers := middleware.RequireRoles(models.RoleSeller, models.RoleAdmin)

	// --- API routes ---
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(apiV1, auth)
	handlers.NewUserHandler(userService, log).RegisterRoutes(apiV1, auth, adminOnly)
	handlers.NewCategoryHandler(categoryService, log).RegisterRoutes(apiV1, auth, adminOnly)
	listings := handlers.NewListingHandler(listingService, log).RegisterRoutes(apiV1, auth, sellers)
	handlers.NewReviewHandler(reviewService, log).RegisterRoutes(apiV1, listings, auth)
	handlers.NewOrderHandler(orderService, transitionService, log).RegisterRoutes(apiV1, auth, adminOnly)

	// --- Health and metrics ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": deps.Publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return &App{App: app, Auth: authService}
}
