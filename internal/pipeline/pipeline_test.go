package pipeline

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarea-javier/olist-insights/pkg/config"
	pkgerrors "github.com/tarea-javier/olist-insights/pkg/errors"
	"github.com/tarea-javier/olist-insights/pkg/logger"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// Fixture mirrors the delivered/canceled mix: the canceled order must
// not appear in any KPI.
func writeFixtures(t *testing.T, dir string) {
	t.Helper()
	writeFixture(t, dir, "orders.csv",
		"order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date,order_estimated_delivery_date\n"+
			"o1,c1,delivered,2018-01-03 10:00:00,2018-01-10 09:00:00,2018-01-15 00:00:00\n"+
			"o2,c2,delivered,2018-02-04 11:00:00,2018-02-12 09:00:00,2018-02-10 00:00:00\n"+
			"o3,c3,canceled,2018-01-05 12:00:00,,2018-01-25 00:00:00\n")
	writeFixture(t, dir, "customers.csv",
		"customer_id,customer_unique_id,customer_state,customer_city\n"+
			"c1,u1,SP,sao paulo\n"+
			"c2,u2,SP,campinas\n"+
			"c3,u3,RJ,rio de janeiro\n")
	writeFixture(t, dir, "items.csv",
		"order_id,product_id,price\n"+
			"o1,p1,80\n"+
			"o1,p2,20\n"+
			"o2,p1,200\n")
	writeFixture(t, dir, "payments.csv",
		"order_id,payment_value\n"+
			"o1,100\n"+
			"o2,200\n"+
			"o3,50\n")
	writeFixture(t, dir, "products.csv",
		"product_id,product_category_name\n"+
			"p1,cama_mesa_banho\n"+
			"p2,brinquedos\n")
	writeFixture(t, dir, "reviews.csv",
		"order_id,review_score\n"+
			"o1,5\n"+
			"o2,4\n")
	writeFixture(t, dir, "translation.csv",
		"product_category_name,product_category_name_english\n"+
			"cama_mesa_banho,bed_bath_table\n"+
			"brinquedos,toys\n")
}

func fixtureConfig(dir string) config.DataConfig {
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

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	result, err := Run(context.Background(), fixtureConfig(dir), logg, nil)
	require.NoError(t, err)

	report := result.Report

	// canceled order excluded from the working set
	require.Equal(t, 2, report.Core.TotalOrders)
	require.InDelta(t, 300.0, report.Core.TotalGMV, 1e-9)
	require.InDelta(t, 150.0, report.Core.AvgOrderValue, 1e-9)
	require.Equal(t, 3, report.Core.UniqueCustomers)

	require.Len(t, report.Temporal.Monthly, 2)
	require.Equal(t, "2018-01", report.Temporal.Monthly[0].Month)
	require.InDelta(t, 100.0, report.Temporal.Monthly[0].Revenue, 1e-9)
	require.Equal(t, "2018-02", report.Temporal.Monthly[1].Month)
	require.InDelta(t, 200.0, report.Temporal.Monthly[1].Revenue, 1e-9)
	require.Equal(t, []float64{100}, report.Temporal.GrowthRates)

	monthlySum := 0.0
	for _, month := range report.Temporal.Monthly {
		monthlySum += month.Revenue
	}
	require.InDelta(t, report.Core.TotalGMV, monthlySum, 1e-9)

	require.Len(t, report.Geographic.ByState, 1)
	require.Equal(t, "SP", report.Geographic.ByState[0].State)
	require.InDelta(t, 100.0, report.Geographic.Concentration, 1e-9)

	require.Equal(t, "bed_bath_table", report.Categories.ByCategory[0].Category)
	require.InDelta(t, 280.0, report.Categories.ByCategory[0].Revenue, 1e-9)

	// o1 delivered in 6.958... days before the estimate, o2 after it
	require.Equal(t, 1, report.Operational.OnTimeOrders)
	require.Equal(t, 2, report.Operational.TotalWithDelivery)
	require.InDelta(t, 50.0, report.Operational.OnTimeRate, 1e-9)
	require.False(t, math.IsNaN(report.Operational.AvgLeadTime))
	require.InDelta(t, 4.5, report.Operational.AvgReviewScore, 1e-9)
}

func TestRunAbortsOnMissingDataset(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "reviews.csv")))
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	result, err := Run(context.Background(), fixtureConfig(dir), logg, nil)
	require.Error(t, err)
	require.Nil(t, result)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeLoad, typed.Code())
	require.Equal(t, "reviews", typed.Dataset())
}
