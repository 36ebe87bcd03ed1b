package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tarea-javier/olist-insights/api/responses"
	"github.com/tarea-javier/olist-insights/internal/kpi"
	pkgerrors "github.com/tarea-javier/olist-insights/pkg/errors"
	"github.com/tarea-javier/olist-insights/pkg/logger"
)

// ReportSource exposes the computed KPI report. The second return is
// false until the startup load-and-compute pass has finished.
type ReportSource interface {
	Report() (*kpi.Report, bool)
}

// GetReport serves the full KPI report.
func GetReport(source ReportSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := source.Report()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotReady, "report not computed yet"))
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// GetReportSection serves one of the five report sections by name.
func GetReportSection(source ReportSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := source.Report()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotReady, "report not computed yet"))
			return
		}

		section := chi.URLParam(r, "section")
		var payload any
		switch section {
		case "core":
			payload = report.Core
		case "temporal":
			payload = report.Temporal
		case "geographic":
			payload = report.Geographic
		case "categories":
			payload = report.Categories
		case "operational":
			payload = report.Operational
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown report section"))
			return
		}
		responses.WriteSuccess(w, payload)
	}
}
