package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/config"
	"github.com/stockregister/stock-api/internal/database"
	"github.com/stockregister/stock-api/internal/http/handler"
	"github.com/stockregister/stock-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/stockregister/stock-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	authHandler       *handler.AuthHandler
	departmentHandler *handler.DepartmentHandler
	categoryHandler   *handler.CategoryHandler
	accountHandler    *handler.AccountHandler
	stockHandler      *handler.StockHandler
	complaintHandler  *handler.ComplaintHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	departmentHandler *handler.DepartmentHandler,
	categoryHandler *handler.CategoryHandler,
	accountHandler *handler.AccountHandler,
	stockHandler *handler.StockHandler,
	complaintHandler *handler.ComplaintHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		authHandler:       authHandler,
		departmentHandler: departmentHandler,
		categoryHandler:   categoryHandler,
		accountHandler:    accountHandler,
		stockHandler:      stockHandler,
		complaintHandler:  complaintHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Departments
			r.Route("/departments", func(r chi.Router) {
				r.Get("/", rt.departmentHandler.List)
				r.Post("/", rt.departmentHandler.Create)
				r.Get("/choices", rt.departmentHandler.Choices)
				r.Get("/{id}", rt.departmentHandler.GetByID)
				r.Put("/{id}", rt.departmentHandler.Update)
				r.Delete("/{id}", rt.departmentHandler.Delete)
			})

			// Categories
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", rt.categoryHandler.List)
				r.Post("/", rt.categoryHandler.Create)
				r.Get("/{id}", rt.categoryHandler.GetByID)
				r.Put("/{id}", rt.categoryHandler.Update)
				r.Delete("/{id}", rt.categoryHandler.Delete)
			})

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", rt.accountHandler.List)
				r.Post("/", rt.accountHandler.Create)
				r.Post("/bulk/make-staff", rt.accountHandler.BulkMakeStaff)
				r.Post("/bulk/make-admin", rt.accountHandler.BulkMakeAdmin)
				r.Post("/bulk/activate", rt.accountHandler.BulkActivate)
				r.Post("/bulk/deactivate", rt.accountHandler.BulkDeactivate)
				r.Get("/{id}", rt.accountHandler.GetByID)
				r.Put("/{id}", rt.accountHandler.Update)
				r.Delete("/{id}", rt.accountHandler.Delete)
			})

			// Stocks
			r.Route("/stocks", func(r chi.Router) {
				r.Get("/", rt.stockHandler.List)
				r.Post("/", rt.stockHandler.Create)
				r.Post("/bulk/mark-available", rt.stockHandler.BulkMarkAvailable)
				r.Post("/bulk/mark-maintenance", rt.stockHandler.BulkMarkMaintenance)
				r.Post("/bulk/mark-retired", rt.stockHandler.BulkMarkRetired)
				r.Get("/{id}", rt.stockHandler.GetByID)
				r.Put("/{id}", rt.stockHandler.Update)
				r.Delete("/{id}", rt.stockHandler.Delete)
			})

			// Complaints
			r.Route("/complaints", func(r chi.Router) {
				r.Get("/", rt.complaintHandler.List)
				r.Post("/", rt.complaintHandler.Create)
				r.Post("/bulk/mark-in-progress", rt.complaintHandler.BulkMarkInProgress)
				r.Post("/bulk/mark-resolved", rt.complaintHandler.BulkMarkResolved)
				r.Post("/bulk/mark-closed", rt.complaintHandler.BulkMarkClosed)
				r.Post("/bulk/assign-to-me", rt.complaintHandler.BulkAssignToMe)
				r.Get("/{id}", rt.complaintHandler.GetByID)
				r.Put("/{id}", rt.complaintHandler.Update)
				r.Delete("/{id}", rt.complaintHandler.Delete)
				r.Get("/{id}/comments", rt.complaintHandler.ListComments)
				r.Post("/{id}/comments", rt.complaintHandler.AddComment)
				r.Delete("/{id}/comments/{commentId}", rt.complaintHandler.DeleteComment)
			})
		})
	})

	return r
}
