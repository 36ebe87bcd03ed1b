package dataset

import (
	"strconv"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Timestamp is a nullable instant parsed from a CSV cell. Empty or
// unparseable cells yield Valid=false; downstream aggregation treats
// that as "unknown" rather than coercing to a zero time.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func (t *Timestamp) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = Timestamp{Time: parsed, Valid: true}
	return nil
}

func (t Timestamp) MarshalCSV() (string, error) {
	if !t.Valid {
		return "", nil
	}
	return t.Time.Format(timeLayout), nil
}

// NullInt is a nullable integer CSV cell.
type NullInt struct {
	Value int
	Valid bool
}

func (n *NullInt) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*n = NullInt{}
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		*n = NullInt{}
		return nil
	}
	*n = NullInt{Value: parsed, Valid: true}
	return nil
}

func (n NullInt) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}
	return strconv.Itoa(n.Value), nil
}

// Order is one row of the orders export.
type Order struct {
	OrderID     string    `csv:"order_id"`
	CustomerID  string    `csv:"customer_id"`
	Status      string    `csv:"order_status"`
	PurchasedAt Timestamp `csv:"order_purchase_timestamp"`
	DeliveredAt Timestamp `csv:"order_delivered_customer_date"`
	EstimatedAt Timestamp `csv:"order_estimated_delivery_date"`
}

// Customer is one row of the customers export. UniqueID identifies the
// person; CustomerID is per-order.
type Customer struct {
	CustomerID string `csv:"customer_id"`
	UniqueID   string `csv:"customer_unique_id"`
	State      string `csv:"customer_state"`
	City       string `csv:"customer_city"`
}

// OrderItem is one line item of an order.
type OrderItem struct {
	OrderID   string  `csv:"order_id"`
	ProductID string  `csv:"product_id"`
	Price     float64 `csv:"price"`
}

// Payment is one payment row; orders may carry several.
type Payment struct {
	OrderID string  `csv:"order_id"`
	Value   float64 `csv:"payment_value"`
}

// Product carries the (Portuguese) category name of a product.
type Product struct {
	ProductID    string `csv:"product_id"`
	CategoryName string `csv:"product_category_name"`
}

// Review is one customer review; Score is 1-5 when present.
type Review struct {
	OrderID string  `csv:"order_id"`
	Score   NullInt `csv:"review_score"`
}

// CategoryTranslation maps a category name to its English form.
type CategoryTranslation struct {
	CategoryName string `csv:"product_category_name"`
	English      string `csv:"product_category_name_english"`
}

// Raw bundles the seven parsed datasets. It is populated once by the
// loader and read-only afterwards.
type Raw struct {
	Orders       []Order
	Customers    []Customer
	OrderItems   []OrderItem
	Payments     []Payment
	Products     []Product
	Reviews      []Review
	Translations []CategoryTranslation
}
