package controllers

import (
	"net/http"

	"github.com/tarea-javier/olist-insights/api/responses"
	"github.com/tarea-javier/olist-insights/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Olist-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the startup load-and-compute pass has
// produced a report.
func HealthReady(cfg *config.Config, source ReportSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Olist-Env", cfg.App.Env)
		if _, ok := source.Report(); !ok {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
