package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/docuvault/docuvault/internal/access"
	"github.com/docuvault/docuvault/internal/documents"
	"github.com/docuvault/docuvault/internal/observability"
	"github.com/docuvault/docuvault/internal/roles"
	"github.com/docuvault/docuvault/internal/shared"
	"github.com/docuvault/docuvault/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	AccessHandler    *access.Handler
	DocumentsHandler *documents.Handler
	RolesHandler     *roles.Handler
	UsersHandler     *users.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with DocuVault defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		params.AccessHandler.MountRoutes(r)
		params.DocumentsHandler.MountRoutes(r)
	})

	r.Route("/admin", func(r chi.Router) {
		params.RolesHandler.MountRoutes(r)
		params.UsersHandler.MountRoutes(r)
	})

	return r
}
