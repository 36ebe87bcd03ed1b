package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tarea-javier/olist-insights/pkg/config"
	pkgerrors "github.com/tarea-javier/olist-insights/pkg/errors"
	"github.com/tarea-javier/olist-insights/pkg/logger"
	"github.com/tarea-javier/olist-insights/pkg/metrics"
)

// Name identifies one of the seven input datasets.
type Name string

const (
	NameOrders       Name = "orders"
	NameCustomers    Name = "customers"
	NameOrderItems   Name = "order_items"
	NamePayments     Name = "payments"
	NameProducts     Name = "products"
	NameReviews      Name = "reviews"
	NameTranslations Name = "translations"
)

// Loader reads the seven CSV exports into a Raw record store. All files
// are loaded concurrently; the first failure aborts the whole load.
type Loader struct {
	cfg     config.DataConfig
	logg    *logger.Logger
	metrics *metrics.PipelineMetrics
}

func NewLoader(cfg config.DataConfig, logg *logger.Logger, m *metrics.PipelineMetrics) (*Loader, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Loader{cfg: cfg, logg: logg, metrics: m}, nil
}

// Load fans out one goroutine per dataset and joins before returning.
// There is no partial-result path: any error yields a nil Raw.
func (l *Loader) Load(ctx context.Context) (*Raw, error) {
	raw := &Raw{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loadInto(ctx, l, NameOrders, l.cfg.Path(l.cfg.OrdersFile), &raw.Orders)
	})
	g.Go(func() error {
		return loadInto(ctx, l, NameCustomers, l.cfg.Path(l.cfg.CustomersFile), &raw.Customers)
	})
	g.Go(func() error {
		return loadInto(ctx, l, NameOrderItems, l.cfg.Path(l.cfg.OrderItemsFile), &raw.OrderItems)
	})
	g.Go(func() error {
		return loadInto(ctx, l, NamePayments, l.cfg.Path(l.cfg.PaymentsFile), &raw.Payments)
	})
	g.Go(func() error {
		return loadInto(ctx, l, NameProducts, l.cfg.Path(l.cfg.ProductsFile), &raw.Products)
	})
	g.Go(func() error {
		return loadInto(ctx, l, NameReviews, l.cfg.Path(l.cfg.ReviewsFile), &raw.Reviews)
	})
	g.Go(func() error {
		return loadInto(ctx, l, NameTranslations, l.cfg.Path(l.cfg.TranslationFile), &raw.Translations)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raw, nil
}

func loadInto[T any](ctx context.Context, l *Loader, name Name, path string, out *[]T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	ctx = l.logg.WithDataset(ctx, string(name))

	data, err := os.ReadFile(path)
	if err != nil {
		l.metrics.IncLoadFailure(string(name))
		return pkgerrors.Wrap(pkgerrors.CodeLoad, err, "reading file").WithDataset(string(name))
	}

	var zero T
	if err := validateHeader(data, requiredColumns(reflect.TypeOf(zero))); err != nil {
		l.metrics.IncLoadFailure(string(name))
		return pkgerrors.Wrap(pkgerrors.CodeSchema, err, "missing required columns").WithDataset(string(name))
	}

	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		l.metrics.IncLoadFailure(string(name))
		return pkgerrors.Wrap(pkgerrors.CodeLoad, err, "parsing csv").WithDataset(string(name))
	}

	l.metrics.ObserveLoad(string(name), len(*out), time.Since(start))
	ctx = l.logg.WithFields(ctx, map[string]any{
		"rows":        len(*out),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	l.logg.Info(ctx, "dataset.loaded")
	return nil
}

// validateHeader checks the first CSV record for every required column,
// reporting all absent columns at once.
func validateHeader(data []byte, required []string) error {
	reader := csv.NewReader(bytes.NewReader(data))
	header, err := reader.Read()
	if err == io.EOF {
		return fmt.Errorf("file is empty")
	}
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[col] = struct{}{}
	}

	var combined error
	for _, col := range required {
		if _, ok := present[col]; !ok {
			combined = multierr.Append(combined, fmt.Errorf("column %q absent", col))
		}
	}
	return combined
}

func requiredColumns(t reflect.Type) []string {
	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("csv")
		if tag == "" || tag == "-" {
			continue
		}
		columns = append(columns, tag)
	}
	return columns
}
