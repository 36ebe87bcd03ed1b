// Package derive turns the raw record store into the working dataset all
// KPIs are computed from: delivered orders enriched with calendar buckets,
// lead times and join-resolved fields, plus order items with resolved
// category labels.
package derive

import (
	"fmt"

	"github.com/tarea-javier/olist-insights/internal/dataset"
)

const hoursPerDay = 24

// Order is an enriched, delivered order. Pointer fields are nil when the
// underlying value is unknown (missing join target or missing date);
// aggregation must branch on that rather than read a zero.
type Order struct {
	dataset.Order

	Year      int
	Month     int
	YearMonth string

	// LeadTimeDays is delivered minus purchased in fractional days.
	// Negative values are preserved here; operational metrics filter
	// them later.
	LeadTimeDays *float64

	// OnTime is true iff delivered on or before the estimated date.
	// nil when either date is unknown.
	OnTime *bool

	PaymentValue  float64
	CustomerState *string
	CustomerCity  *string
}

// Item is an order item with its product category resolved. Category is
// the English name, falling back to the original name when no
// translation exists.
type Item struct {
	dataset.OrderItem

	Category    *string
	ProductName *string
}

// Working is the immutable dataset the KPI aggregator consumes. It also
// carries the two facts needed from outside the delivered-order subset:
// the distinct customer count and the raw reviews.
type Working struct {
	Orders          []Order
	Items           []Item
	Reviews         []dataset.Review
	UniqueCustomers int
}

// Build runs the derivation pass once over the raw record store.
func Build(raw *dataset.Raw) (*Working, error) {
	if raw == nil {
		return nil, fmt.Errorf("raw dataset required")
	}

	paymentsByOrder := sumPayments(raw.Payments)
	customersByID := indexCustomers(raw.Customers)
	categoryByProduct := resolveCategories(raw.Products, raw.Translations)

	orders := make([]Order, 0, len(raw.Orders))
	for _, rawOrder := range raw.Orders {
		// Only delivered orders with a parseable purchase date can be
		// bucketed; everything else is outside the working set.
		if rawOrder.Status != "delivered" || !rawOrder.PurchasedAt.Valid {
			continue
		}
		orders = append(orders, enrichOrder(rawOrder, paymentsByOrder, customersByID))
	}

	items := make([]Item, 0, len(raw.OrderItems))
	for _, rawItem := range raw.OrderItems {
		items = append(items, enrichItem(rawItem, categoryByProduct))
	}

	return &Working{
		Orders:          orders,
		Items:           items,
		Reviews:         raw.Reviews,
		UniqueCustomers: countUniqueCustomers(raw.Customers),
	}, nil
}

func enrichOrder(raw dataset.Order, payments map[string]float64, customers map[string]dataset.Customer) Order {
	purchase := raw.PurchasedAt.Time
	order := Order{
		Order:        raw,
		Year:         purchase.Year(),
		Month:        int(purchase.Month()),
		YearMonth:    fmt.Sprintf("%04d-%02d", purchase.Year(), int(purchase.Month())),
		PaymentValue: payments[raw.OrderID],
	}

	if raw.DeliveredAt.Valid {
		leadTime := raw.DeliveredAt.Time.Sub(purchase).Hours() / hoursPerDay
		order.LeadTimeDays = &leadTime

		if raw.EstimatedAt.Valid {
			onTime := !raw.DeliveredAt.Time.After(raw.EstimatedAt.Time)
			order.OnTime = &onTime
		}
	}

	if customer, ok := customers[raw.CustomerID]; ok {
		state, city := customer.State, customer.City
		order.CustomerState = &state
		order.CustomerCity = &city
	}

	return order
}

func enrichItem(raw dataset.OrderItem, categories map[string]productCategory) Item {
	item := Item{OrderItem: raw}
	if category, ok := categories[raw.ProductID]; ok {
		english, name := category.english, category.name
		item.Category = &english
		item.ProductName = &name
	}
	return item
}

func sumPayments(payments []dataset.Payment) map[string]float64 {
	totals := make(map[string]float64, len(payments))
	for _, payment := range payments {
		totals[payment.OrderID] += payment.Value
	}
	return totals
}

func indexCustomers(customers []dataset.Customer) map[string]dataset.Customer {
	byID := make(map[string]dataset.Customer, len(customers))
	for _, customer := range customers {
		byID[customer.CustomerID] = customer
	}
	return byID
}

type productCategory struct {
	name    string
	english string
}

// resolveCategories applies the translation table per product, keeping
// the original name when no translation exists (best available label).
func resolveCategories(products []dataset.Product, translations []dataset.CategoryTranslation) map[string]productCategory {
	english := make(map[string]string, len(translations))
	for _, tr := range translations {
		english[tr.CategoryName] = tr.English
	}

	byProduct := make(map[string]productCategory, len(products))
	for _, product := range products {
		category := productCategory{name: product.CategoryName, english: product.CategoryName}
		if translated, ok := english[product.CategoryName]; ok && translated != "" {
			category.english = translated
		}
		byProduct[product.ProductID] = category
	}
	return byProduct
}

func countUniqueCustomers(customers []dataset.Customer) int {
	unique := make(map[string]struct{}, len(customers))
	for _, customer := range customers {
		unique[customer.UniqueID] = struct{}{}
	}
	return len(unique)
}
