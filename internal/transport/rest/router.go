package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"go.opentelemetry.io/otel/trace"

	"github.com/frahmantamala/project-tracker/internal/activity"
	"github.com/frahmantamala/project-tracker/internal/analytics"
	"github.com/frahmantamala/project-tracker/internal/auth"
	"github.com/frahmantamala/project-tracker/internal/category"
	"github.com/frahmantamala/project-tracker/internal/export"
	"github.com/frahmantamala/project-tracker/internal/permission"
	"github.com/frahmantamala/project-tracker/internal/project"
	"github.com/frahmantamala/project-tracker/internal/role"
	"github.com/frahmantamala/project-tracker/internal/transport/middleware"
	"github.com/frahmantamala/project-tracker/internal/transport/swagger"
	"github.com/frahmantamala/project-tracker/internal/user"
)

type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Permission *permission.Handler
	Role       *role.Handler
	User       *user.Handler
	Category   *category.Handler
	Project    *project.Handler
	Analytics  *analytics.Handler
	Export     *export.Handler
	Activity   *activity.Handler
}

type Options struct {
	AllowedOrigins string
	LoginLimiter   *middleware.RateLimiter
	Tracer         trace.Tracer
	OpenAPI        *swagger.Document
}

// RegisterAllRoutes mounts the API under /api. Reads are open; every
// mutating route and the exports require the matching catalog permission.
func RegisterAllRoutes(router *chi.Mux, h Handlers, rbac *permission.RBAC, opts Options, logger *slog.Logger) {
	if opts.Tracer != nil {
		router.Use(middleware.Tracing(opts.Tracer))
	}
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if opts.OpenAPI != nil {
		router.Handle("/openapi.yml", opts.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Group(func(lr chi.Router) {
				if opts.LoginLimiter != nil {
					lr.Use(opts.LoginLimiter.Middleware)
				}
				lr.Post("/login", h.Auth.Login)
			})
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.IdentityMiddleware)

			pr.Post("/permission", h.Permission.CheckPermission)
			pr.Get("/permissions", h.Permission.ListCatalog)

			pr.Route("/roles", func(rr chi.Router) {
				rr.Get("/", h.Role.ListRoles)
				rr.Get("/{id}", h.Role.GetRole)
				rr.With(rbac.Require(permission.AddRoles)).Post("/", h.Role.CreateRole)
				rr.With(rbac.Require(permission.EditRoles)).Put("/{id}", h.Role.UpdateRole)
				rr.With(rbac.Require(permission.DeleteRoles)).Delete("/{id}", h.Role.DeleteRole)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.User.ListUsers)
				ur.Get("/me", h.User.GetCurrentUser)
				ur.Get("/{id}", h.User.GetUser)
				ur.With(rbac.Require(permission.AddUsers)).Post("/", h.User.CreateUser)
				ur.With(rbac.Require(permission.EditUsers)).Put("/", h.User.UpdateUser)
				ur.With(rbac.Require(permission.DeleteUsers)).Delete("/", h.User.DeleteUser)
			})

			pr.Route("/categories", func(cr chi.Router) {
				cr.Get("/", h.Category.GetCategories)
				cr.Get("/{id}", h.Category.GetCategory)
				cr.With(rbac.Require(permission.AddCategories)).Post("/", h.Category.CreateCategory)
				cr.With(rbac.Require(permission.EditCategories)).Put("/{id}", h.Category.UpdateCategory)
				cr.With(rbac.Require(permission.DeleteCategories)).Delete("/{id}", h.Category.DeleteCategory)
			})

			pr.Route("/projects", func(jr chi.Router) {
				jr.Get("/", h.Project.ListProjects)
				if h.Export != nil {
					jr.With(rbac.Require(permission.ExportProjects)).Get("/export", h.Export.Download)
					jr.With(rbac.Require(permission.ExportProjects)).Post("/export", h.Export.Archive)
				}
				if h.Project.Feed != nil {
					jr.Get("/stream", h.Project.Stream)
				}
				jr.Get("/{id}", h.Project.GetProject)
				jr.With(rbac.Require(permission.AddProjects)).Post("/", h.Project.CreateProject)
				jr.Group(func(er chi.Router) {
					er.Use(rbac.Require(permission.EditProjects))
					er.Put("/{id}", h.Project.UpdateProject)
					er.Patch("/{id}/status", h.Project.UpdateStatus)
					er.Post("/{id}/metrics", h.Project.RefreshMetrics)
				})
				jr.With(rbac.Require(permission.DeleteProjects)).Delete("/{id}", h.Project.DeleteProject)
			})

			pr.Route("/analytics", func(nr chi.Router) {
				nr.Get("/summary", h.Analytics.Summary)
				nr.Get("/timeline", h.Analytics.Timeline)
				nr.Get("/categories", h.Analytics.Categories)
				nr.Get("/platforms", h.Analytics.Platforms)
				nr.Get("/brands", h.Analytics.Brands)
				nr.Get("/status", h.Analytics.Status)
				nr.Get("/divisions", h.Analytics.Divisions)
			})

			pr.Get("/activity", h.Activity.ListActivity)
			pr.Post("/activity", h.Activity.CreateActivity)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})
}
