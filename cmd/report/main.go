package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/tarea-javier/olist-insights/internal/kpi"
	"github.com/tarea-javier/olist-insights/internal/pipeline"
	"github.com/tarea-javier/olist-insights/pkg/config"
	"github.com/tarea-javier/olist-insights/pkg/logger"
)

func main() {
	format := flag.String("format", "json", "output format: json or text")
	flag.Parse()

	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "report"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "report",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	result, err := pipeline.Run(ctx, cfg.Data, logg, nil)
	if err != nil {
		logg.Error(ctx, "pipeline failed", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result.Report); err != nil {
			logg.Error(ctx, "failed to encode report", err)
			os.Exit(1)
		}
	case "text":
		printSummary(os.Stdout, result.Report)
	default:
		logg.Error(ctx, "unknown output format", fmt.Errorf("format %q", *format))
		os.Exit(2)
	}
}

func printSummary(w io.Writer, report kpi.Report) {
	fmt.Fprintln(w, "== Core ==")
	fmt.Fprintf(w, "GMV:                 %s\n", kpi.FormatCurrency(report.Core.TotalGMV))
	fmt.Fprintf(w, "Orders:              %s\n", kpi.FormatNumber(float64(report.Core.TotalOrders)))
	fmt.Fprintf(w, "Avg order value:     %s\n", kpi.FormatCurrency(report.Core.AvgOrderValue))
	fmt.Fprintf(w, "Unique customers:    %s\n", kpi.FormatNumber(float64(report.Core.UniqueCustomers)))

	fmt.Fprintln(w, "\n== Temporal ==")
	fmt.Fprintf(w, "Months:              %d\n", len(report.Temporal.Monthly))
	fmt.Fprintf(w, "Avg growth rate:     %s\n", kpi.FormatPercent(report.Temporal.AvgGrowthRate))

	fmt.Fprintln(w, "\n== Top states ==")
	for _, state := range report.Geographic.Top10 {
		fmt.Fprintf(w, "%-4s %12s %10s orders\n", state.State, kpi.FormatCurrency(state.Revenue), kpi.FormatNumber(float64(state.Orders)))
	}
	fmt.Fprintf(w, "Top-3 concentration: %s\n", kpi.FormatPercent(report.Geographic.Concentration))

	fmt.Fprintln(w, "\n== Top categories ==")
	for _, category := range report.Categories.Top10 {
		fmt.Fprintf(w, "%-24s %12s %10s items\n", category.Category, kpi.FormatCurrency(category.Revenue), kpi.FormatNumber(float64(category.Items)))
	}

	fmt.Fprintln(w, "\n== Operational ==")
	fmt.Fprintf(w, "On-time rate:        %s\n", kpi.FormatPercent(report.Operational.OnTimeRate))
	fmt.Fprintf(w, "Avg lead time:       %.1f days\n", report.Operational.AvgLeadTime)
	fmt.Fprintf(w, "Avg review score:    %.2f\n", report.Operational.AvgReviewScore)
}
