package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tarea-javier/olist-insights/api/routes"
	"github.com/tarea-javier/olist-insights/internal/kpi"
	"github.com/tarea-javier/olist-insights/internal/pipeline"
	"github.com/tarea-javier/olist-insights/pkg/config"
	"github.com/tarea-javier/olist-insights/pkg/logger"
	"github.com/tarea-javier/olist-insights/pkg/metrics"
)

// reportHolder is the write-once report slot the HTTP handlers read.
type reportHolder struct {
	mu     sync.RWMutex
	report *kpi.Report
}

func (h *reportHolder) Set(report *kpi.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report = report
}

func (h *reportHolder) Report() (*kpi.Report, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.report == nil {
		return nil, false
	}
	return h.report, true
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "dashboard"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "dashboard",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	result, err := pipeline.Run(ctx, cfg.Data, logg, pipelineMetrics)
	if err != nil {
		logg.Error(ctx, "startup pipeline failed", err)
		os.Exit(1)
	}

	holder := &reportHolder{}
	holder.Set(&result.Report)

	router := routes.NewRouter(cfg, logg, holder, registry)
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"port": cfg.App.Port,
	})
	logg.Info(runCtx, "dashboard ready")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "server failed", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(runCtx, "dashboard stopped")
	}
}
