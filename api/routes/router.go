package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tarea-javier/olist-insights/api/controllers"
	"github.com/tarea-javier/olist-insights/api/middleware"
	"github.com/tarea-javier/olist-insights/pkg/config"
	"github.com/tarea-javier/olist-insights/pkg/logger"
)

// NewRouter wires the dashboard HTTP surface: health, metrics and the
// KPI report endpoints.
func NewRouter(cfg *config.Config, logg *logger.Logger, source controllers.ReportSource, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.Recoverer(logg))

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, source))

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", controllers.GetReport(source, logg))
		r.Get("/report/{section}", controllers.GetReportSection(source, logg))
	})

	return r
}
