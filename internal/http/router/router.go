package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/config"
	"github.com/logfrete/freight-api/internal/database"
	"github.com/logfrete/freight-api/internal/http/handler"
	"github.com/logfrete/freight-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/logfrete/freight-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	freightMapHandler   *handler.FreightMapHandler
	carrierHandler      *handler.CarrierHandler
	truckTypeHandler    *handler.TruckTypeHandler
	userHandler         *handler.UserHandler
	authHandler         *handler.AuthHandler
	notificationHandler *handler.NotificationHandler
	invoiceHandler      *handler.InvoiceHandler
	routingHandler      *handler.RoutingHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	freightMapHandler *handler.FreightMapHandler,
	carrierHandler *handler.CarrierHandler,
	truckTypeHandler *handler.TruckTypeHandler,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	notificationHandler *handler.NotificationHandler,
	invoiceHandler *handler.InvoiceHandler,
	routingHandler *handler.RoutingHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		freightMapHandler:   freightMapHandler,
		carrierHandler:      carrierHandler,
		truckTypeHandler:    truckTypeHandler,
		userHandler:         userHandler,
		authHandler:         authHandler,
		notificationHandler: notificationHandler,
		invoiceHandler:      invoiceHandler,
		routingHandler:      routingHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
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

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// Locally stored invoice files
	if rt.cfg.Storage.Mode == "local" {
		fs := http.StripPrefix("/files/", http.FileServer(http.Dir(rt.cfg.Storage.LocalBasePath)))
		r.Get("/files/*", fs.ServeHTTP)
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Post("/auth/change-password", rt.authHandler.ChangePassword)

			// Freight maps
			r.Route("/freight-maps", func(r chi.Router) {
				r.Get("/", rt.freightMapHandler.List)
				r.Get("/{id}", rt.freightMapHandler.Get)

				// Carrier negotiation
				r.Post("/{id}/proposal", rt.freightMapHandler.SubmitProposal)

				// Invoices on contracted freights
				r.Get("/{id}/invoices", rt.invoiceHandler.List)
				r.Post("/{id}/invoices", rt.invoiceHandler.Attach)

				// Staff-only management and lifecycle
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)

					// Competitor bids are staff-only reading
					r.Get("/groups/{mapNumber}/lowest-bid", rt.freightMapHandler.LowestBid)

					r.Post("/", rt.freightMapHandler.Create)
					r.Put("/{id}", rt.freightMapHandler.Update)
					r.Put("/{id}/contracted", rt.freightMapHandler.UpdateContracted)
					r.Delete("/{id}", rt.freightMapHandler.Delete)

					r.Post("/{id}/finalize", rt.freightMapHandler.Finalize)
					r.Post("/{id}/reject", rt.freightMapHandler.Reject)
					r.Post("/{id}/reopen", rt.freightMapHandler.Reopen)
				})
			})

			// Carriers
			r.Route("/carriers", func(r chi.Router) {
				r.Get("/", rt.carrierHandler.List)
				r.Get("/{id}", rt.carrierHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)

					r.Post("/", rt.carrierHandler.Create)
					r.Put("/{id}", rt.carrierHandler.Update)
					r.Delete("/{id}", rt.carrierHandler.Delete)
				})
			})

			// Truck types
			r.Route("/truck-types", func(r chi.Router) {
				r.Get("/", rt.truckTypeHandler.List)
				r.Get("/{id}", rt.truckTypeHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)

					r.Post("/", rt.truckTypeHandler.Create)
					r.Put("/{id}", rt.truckTypeHandler.Update)
					r.Delete("/{id}", rt.truckTypeHandler.Delete)
				})
			})

			// Users (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)

				r.Get("/", rt.userHandler.List)
				r.Post("/", rt.userHandler.Create)
				r.Get("/{id}", rt.userHandler.Get)
				r.Put("/{id}", rt.userHandler.Update)
				r.Delete("/{id}", rt.userHandler.Delete)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
			})

			// Routing
			r.Get("/routing/lookup", rt.routingHandler.Lookup)
		})
	})

	return r
}
