// Package pipeline runs the one-shot load, derive and aggregate pass
// shared by the report and dashboard binaries.
package pipeline

import (
	"context"
	"time"

	"github.com/tarea-javier/olist-insights/internal/dataset"
	"github.com/tarea-javier/olist-insights/internal/derive"
	"github.com/tarea-javier/olist-insights/internal/kpi"
	"github.com/tarea-javier/olist-insights/pkg/config"
	"github.com/tarea-javier/olist-insights/pkg/logger"
	"github.com/tarea-javier/olist-insights/pkg/metrics"
)

// Result carries the derived dataset and the computed report. Both are
// immutable once returned.
type Result struct {
	Working *derive.Working
	Report  kpi.Report
}

// Run loads all datasets, derives the working set and computes the KPI
// report. Any load failure aborts the whole run; there is no partial
// result.
func Run(ctx context.Context, cfg config.DataConfig, logg *logger.Logger, m *metrics.PipelineMetrics) (*Result, error) {
	loader, err := dataset.NewLoader(cfg, logg, m)
	if err != nil {
		return nil, err
	}

	raw, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	working, err := derive.Build(raw)
	if err != nil {
		return nil, err
	}
	m.ObserveStage("derive", time.Since(start))

	start = time.Now()
	report := kpi.Compute(working)
	m.ObserveStage("aggregate", time.Since(start))

	ctx = logg.WithFields(ctx, map[string]any{
		"orders":           len(working.Orders),
		"items":            len(working.Items),
		"unique_customers": working.UniqueCustomers,
		"months":           len(report.Temporal.Monthly),
	})
	logg.Info(ctx, "pipeline.complete")

	return &Result{Working: working, Report: report}, nil
}
