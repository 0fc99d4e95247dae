package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/frahmantamala/timekeeping/api"
	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/auth"
	"github.com/frahmantamala/timekeeping/internal/employee"
	"github.com/frahmantamala/timekeeping/internal/registration"
	"github.com/frahmantamala/timekeeping/internal/timeentry"
	"github.com/frahmantamala/timekeeping/internal/transport"
	"github.com/frahmantamala/timekeeping/internal/transport/middleware"
	"github.com/frahmantamala/timekeeping/internal/transport/swagger"
)

// Dependencies are the handlers and infrastructure the router mounts.
// A nil handler leaves its routes unregistered.
type Dependencies struct {
	DB                  *sql.DB
	Cache               *redis.Client
	AllowedOrigins      string
	Validator           *middleware.OpenAPIValidator
	AuthHandler         *auth.Handler
	AccessPolicy        *auth.AccessPolicy
	RegistrationHandler *registration.Handler
	EmployeeHandler     *employee.Handler
	TimeEntryHandler    *timeentry.Handler
	Logger              *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB, deps.Cache, transport.NewBaseHandler(deps.Logger))

	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(healthHandler.Logger))
	router.Use(middleware.RecoveryMiddleware(healthHandler.Logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if deps.Validator != nil {
			r.Use(deps.Validator.Middleware)
		}

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.RegistrationHandler != nil {
			r.Post("/registrations", deps.RegistrationHandler.Register)
		}

		if deps.AuthHandler == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", deps.AuthHandler.Login)
			sr.Post("/refresh", deps.AuthHandler.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)

			if deps.EmployeeHandler != nil {
				pr.Get("/employees/me", deps.EmployeeHandler.GetCurrentEmployee)
			}

			if deps.TimeEntryHandler == nil || deps.AccessPolicy == nil {
				return
			}

			entries := deps.TimeEntryHandler
			pr.Post("/entries", entries.Create)

			pr.Route("/entries/{id}", func(er chi.Router) {
				er.Use(deps.AccessPolicy.RequireEntryAccess)
				er.Get("/", entries.GetByID)
				er.With(middleware.RequireRole(healthHandler.Logger, internal.RoleAdmin)).
					Delete("/", entries.Remove)
			})

			pr.Route("/employees/{employeeID}/entries", func(er chi.Router) {
				er.Use(deps.AccessPolicy.RequireEmployeeAccess)
				er.Get("/", entries.ListPage)
				er.Get("/all", entries.ListAll)
				er.Get("/latest", entries.MostRecent)
			})
		})
	})
}
