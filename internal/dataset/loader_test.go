package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tarea-javier/olist-insights/pkg/config"
	pkgerrors "github.com/tarea-javier/olist-insights/pkg/errors"
	"github.com/tarea-javier/olist-insights/pkg/logger"
)

const ordersHeader = "order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date,order_estimated_delivery_date"

func testDataConfig(dir string) config.DataConfig {
	return config.DataConfig{
		Dir:             dir,
		OrdersFile:      "orders.csv",
		CustomersFile:   "customers.csv",
		OrderItemsFile:  "items.csv",
		PaymentsFile:    "payments.csv",
		ProductsFile:    "products.csv",
		ReviewsFile:     "reviews.csv",
		TranslationFile: "translation.csv",
	}
}

func writeDataset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func writeAllDatasets(t *testing.T, dir string) {
	t.Helper()
	writeDataset(t, dir, "orders.csv", ordersHeader+"\n"+
		"o1,c1,delivered,2018-01-03 10:00:00,2018-01-10 09:00:00,2018-01-15 00:00:00\n"+
		"\n"+
		"o2,c2,canceled,2018-01-04 11:00:00,,2018-01-20 00:00:00\n")
	writeDataset(t, dir, "customers.csv", "customer_id,customer_unique_id,customer_state,customer_city\n"+
		"c1,u1,SP,sao paulo\n")
	writeDataset(t, dir, "items.csv", "order_id,product_id,price\n"+
		"o1,p1,59.9\n")
	writeDataset(t, dir, "payments.csv", "order_id,payment_value\n"+
		"o1,59.9\no1,12.1\n")
	writeDataset(t, dir, "products.csv", "product_id,product_category_name\n"+
		"p1,cama_mesa_banho\n")
	writeDataset(t, dir, "reviews.csv", "order_id,review_score\n"+
		"o1,5\no2,\n")
	writeDataset(t, dir, "translation.csv", "product_category_name,product_category_name_english\n"+
		"cama_mesa_banho,bed_bath_table\n")
}

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	loader, err := NewLoader(testDataConfig(dir), logg, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	return loader
}

func TestLoadAllDatasets(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)

	raw, err := newTestLoader(t, dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(raw.Orders) != 2 {
		t.Fatalf("expected 2 orders (blank row skipped), got %d", len(raw.Orders))
	}
	first := raw.Orders[0]
	if first.OrderID != "o1" || first.Status != "delivered" {
		t.Fatalf("unexpected first order %+v", first)
	}
	if !first.PurchasedAt.Valid {
		t.Fatal("expected valid purchase timestamp")
	}
	want := time.Date(2018, 1, 3, 10, 0, 0, 0, time.UTC)
	if !first.PurchasedAt.Time.Equal(want) {
		t.Fatalf("unexpected purchase time %v", first.PurchasedAt.Time)
	}
	if raw.Orders[1].DeliveredAt.Valid {
		t.Fatal("expected missing delivered date to be invalid")
	}

	if len(raw.Payments) != 2 || raw.Payments[1].Value != 12.1 {
		t.Fatalf("unexpected payments %+v", raw.Payments)
	}
	if got := raw.Reviews[0].Score; !got.Valid || got.Value != 5 {
		t.Fatalf("unexpected review score %+v", got)
	}
	if raw.Reviews[1].Score.Valid {
		t.Fatal("expected empty review score to be invalid")
	}
	if raw.Translations[0].English != "bed_bath_table" {
		t.Fatalf("unexpected translation %+v", raw.Translations[0])
	}
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)
	if err := os.Remove(filepath.Join(dir, "payments.csv")); err != nil {
		t.Fatalf("removing payments: %v", err)
	}

	raw, err := newTestLoader(t, dir).Load(context.Background())
	if err == nil {
		t.Fatal("expected load failure")
	}
	if raw != nil {
		t.Fatal("expected nil Raw on failure, no partial results")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeLoad {
		t.Fatalf("expected LOAD_ERROR, got %v", err)
	}
	if typed.Dataset() != string(NamePayments) {
		t.Fatalf("expected failing dataset in error, got %q", typed.Dataset())
	}
}

func TestLoadReportsAllMissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)
	writeDataset(t, dir, "orders.csv", "order_id,order_purchase_timestamp\n"+
		"o1,2018-01-03 10:00:00\n")

	_, err := newTestLoader(t, dir).Load(context.Background())
	if err == nil {
		t.Fatal("expected schema failure")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeSchema {
		t.Fatalf("expected SCHEMA_ERROR, got %v", err)
	}
	cause := errors.Unwrap(typed)
	if cause == nil {
		t.Fatal("expected wrapped column errors")
	}
	msg := cause.Error()
	for _, col := range []string{"customer_id", "order_status", "order_delivered_customer_date", "order_estimated_delivery_date"} {
		if !strings.Contains(msg, col) {
			t.Fatalf("expected %q in schema error, got %q", col, msg)
		}
	}
}

func TestTimestampUnparseableIsInvalid(t *testing.T) {
	var ts Timestamp
	if err := ts.UnmarshalCSV("not-a-date"); err != nil {
		t.Fatalf("UnmarshalCSV: %v", err)
	}
	if ts.Valid {
		t.Fatal("expected unparseable timestamp to be invalid")
	}

	if err := ts.UnmarshalCSV("2017-11-24 23:59:59"); err != nil {
		t.Fatalf("UnmarshalCSV: %v", err)
	}
	if !ts.Valid {
		t.Fatal("expected valid timestamp")
	}
}
