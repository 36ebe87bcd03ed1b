package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records metadata for the load-and-aggregate pipeline.
type PipelineMetrics struct {
	rows         *prometheus.GaugeVec
	loadDuration *prometheus.HistogramVec
	loadFailure  *prometheus.CounterVec
	stage        *prometheus.HistogramVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dataset_rows",
		Help: "Rows parsed from each dataset on the last load.",
	}, []string{"dataset"})
	loadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dataset_load_duration_seconds",
		Help:    "Duration of dataset loads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dataset"})
	loadFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_load_failure",
		Help: "Failed dataset loads.",
	}, []string{"dataset"})
	stage := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Duration of pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	reg.MustRegister(rows, loadDuration, loadFailure, stage)
	return &PipelineMetrics{
		rows:         rows,
		loadDuration: loadDuration,
		loadFailure:  loadFailure,
		stage:        stage,
	}
}

// ObserveLoad records the row count and duration for the named dataset.
func (p *PipelineMetrics) ObserveLoad(dataset string, rows int, duration time.Duration) {
	if p == nil || p.rows == nil {
		return
	}
	label := normalizeLabel(dataset)
	p.rows.WithLabelValues(label).Set(float64(rows))
	p.loadDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncLoadFailure increments the failure counter for the named dataset.
func (p *PipelineMetrics) IncLoadFailure(dataset string) {
	if p == nil || p.loadFailure == nil {
		return
	}
	p.loadFailure.WithLabelValues(normalizeLabel(dataset)).Inc()
}

// ObserveStage records the duration for a pipeline stage (derive, aggregate).
func (p *PipelineMetrics) ObserveStage(stage string, duration time.Duration) {
	if p == nil || p.stage == nil {
		return
	}
	p.stage.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

func normalizeLabel(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
