package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Ansari839/ecommerce-dashboard/api"
	"github.com/Ansari839/ecommerce-dashboard/internal/auth"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport/middleware"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport/swagger"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts. Metrics may be nil.
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	User           *user.Handler
	Role           *role.Handler
	Metrics        *middleware.Metrics
}

type Options struct {
	AllowedOrigins string
	MetricsPath    string
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	guard := h.AuthMiddleware

	// Apply global middleware
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recovery(logger))
	if h.Metrics != nil {
		router.Use(h.Metrics.Instrument)
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, h.Metrics.Handler())
	}

	// OpenAPI document and Swagger UI live at the root, outside /api/v1
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/ping", healthHandler.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/register", h.Auth.Register)
			ar.With(guard.Authenticated()).Get("/me", h.Auth.Me)
		})

		r.Route("/users", func(ur chi.Router) {
			ur.With(guard.Require(role.ModuleUsers, role.ActionView)).Get("/", h.User.ListUsers)
			ur.With(guard.Require(role.ModuleUsers, role.ActionCreate)).Post("/", h.User.CreateUser)
			ur.With(guard.Require(role.ModuleUsers, role.ActionView)).Get("/{id}", h.User.GetUser)
			ur.With(guard.Require(role.ModuleUsers, role.ActionUpdate)).Patch("/{id}", h.User.UpdateUser)
			ur.With(guard.Require(role.ModuleUsers, role.ActionUpdate)).Patch("/{id}/status", h.User.UpdateStatus)
			// reassigning roles stays with administrators whatever the grants say
			ur.With(guard.RequireRoles(role.AdminRoleName)).Patch("/{id}/role", h.User.UpdateRole)
		})

		r.Route("/roles", func(rr chi.Router) {
			rr.With(guard.Require(role.ModuleRoles, role.ActionView)).Get("/", h.Role.ListRoles)
			rr.With(guard.Require(role.ModuleRoles, role.ActionCreate)).Post("/", h.Role.CreateRole)
			rr.With(guard.Require(role.ModuleRoles, role.ActionView)).Get("/{id}", h.Role.GetRole)
			rr.With(guard.Require(role.ModuleRoles, role.ActionUpdate)).Put("/{id}", h.Role.UpdateRole)
			rr.With(guard.Require(role.ModuleRoles, role.ActionDelete)).Delete("/{id}", h.Role.DeleteRole)
		})
	})
}
