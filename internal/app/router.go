package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/catalog"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/observability"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/platform/httpx"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/orders"
	"github.com/Kathiriniyan/SukanFood-sub001/jobs"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	CatalogHandler *catalog.Handler
	OrdersHandler  *orders.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
	// Checks are probed by /healthz, keyed by dependency name.
	Checks map[string]Pinger
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok"}
		code := http.StatusOK
		if len(params.Checks) > 0 {
			status.Checks = make(map[string]string, len(params.Checks))
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			for name, check := range params.Checks {
				if err := check.Ping(ctx); err != nil {
					params.Logger.Warn("health check failed", slog.String("check", name), slog.Any("error", err))
					status.Checks[name] = "unavailable"
					status.Status = "degraded"
					code = http.StatusServiceUnavailable
					continue
				}
				status.Checks[name] = "ok"
			}
		}
		httpx.JSON(w, code, status)
	})

	if params.CatalogHandler != nil {
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
	}
	if params.OrdersHandler != nil {
		r.Route("/sales/orders", params.OrdersHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
	})

	return r
}
