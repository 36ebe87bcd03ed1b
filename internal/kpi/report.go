// Package kpi computes the dashboard's KPI report from the derived
// working dataset. The report is a plain value computed in one pass;
// nothing here holds state between calls.
package kpi

import (
	"sort"

	"github.com/tarea-javier/olist-insights/internal/derive"
)

const (
	topEntries = 10

	// Lead-time histogram range in days.
	leadTimeMin  = 0
	leadTimeMax  = 50
	leadTimeBins = 10

	minReviewScore = 1
	maxReviewScore = 5
)

// Report is the full KPI output handed to the presentation layer.
type Report struct {
	Core        Core        `json:"core"`
	Temporal    Temporal    `json:"temporal"`
	Geographic  Geographic  `json:"geographic"`
	Categories  Categories  `json:"categories"`
	Operational Operational `json:"operational"`
}

type Core struct {
	TotalGMV          float64 `json:"totalGMV"`
	TotalOrders       int     `json:"totalOrders"`
	AvgOrderValue     float64 `json:"avgOrderValue"`
	UniqueCustomers   int     `json:"uniqueCustomers"`
	OrdersPerCustomer float64 `json:"ordersPerCustomer"`
}

type MonthMetrics struct {
	Month         string  `json:"month"`
	Revenue       float64 `json:"revenue"`
	Orders        int     `json:"orders"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type Temporal struct {
	Monthly       []MonthMetrics `json:"monthly"`
	GrowthRates   []float64      `json:"growthRates"`
	AvgGrowthRate float64        `json:"avgGrowthRate"`
}

type StateMetrics struct {
	State         string  `json:"state"`
	Revenue       float64 `json:"revenue"`
	Orders        int     `json:"orders"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type Geographic struct {
	ByState []StateMetrics `json:"byState"`
	Top10   []StateMetrics `json:"top10"`
	// Concentration is the revenue share of the top 3 states, as a
	// percentage of revenue across all states.
	Concentration float64 `json:"concentration"`
}

type CategoryMetrics struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Items    int     `json:"items"`
	AvgPrice float64 `json:"avgPrice"`
}

type Categories struct {
	ByCategory []CategoryMetrics `json:"byCategory"`
	Top10      []CategoryMetrics `json:"top10"`
}

type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

type Operational struct {
	AvgLeadTime       float64 `json:"avgLeadTime"`
	OnTimeRate        float64 `json:"onTimeRate"`
	OnTimeOrders      int     `json:"onTimeOrders"`
	TotalWithDelivery int     `json:"totalWithDelivery"`

	AvgReviewScore     float64      `json:"avgReviewScore"`
	ReviewDistribution []ScoreCount `json:"reviewDistribution"`

	LeadTimeDistribution []HistogramBin `json:"leadTimeDistribution"`

	// Data-quality counters for lead times excluded above: negatives
	// are dropped from the average and the histogram, over-range
	// values (beyond the histogram max) from the histogram only.
	NegativeLeadTimes  int `json:"negativeLeadTimes"`
	OverRangeLeadTimes int `json:"overRangeLeadTimes"`
}

// Compute derives the five report sections from the working dataset.
func Compute(working *derive.Working) Report {
	return Report{
		Core:        computeCore(working),
		Temporal:    computeTemporal(working.Orders),
		Geographic:  computeGeographic(working.Orders),
		Categories:  computeCategories(working.Items),
		Operational: computeOperational(working),
	}
}

func computeCore(working *derive.Working) Core {
	core := Core{
		TotalOrders:     len(working.Orders),
		UniqueCustomers: working.UniqueCustomers,
	}
	for _, order := range working.Orders {
		core.TotalGMV += order.PaymentValue
	}
	if core.TotalOrders > 0 {
		core.AvgOrderValue = core.TotalGMV / float64(core.TotalOrders)
	}
	if core.UniqueCustomers > 0 {
		core.OrdersPerCustomer = float64(core.TotalOrders) / float64(core.UniqueCustomers)
	}
	return core
}

func computeTemporal(orders []derive.Order) Temporal {
	groups := groupByMonth(orders)

	monthly := make([]MonthMetrics, 0, len(groups))
	for _, group := range groups {
		metric := MonthMetrics{Month: group.Month, Orders: len(group.Orders)}
		for _, order := range group.Orders {
			metric.Revenue += order.PaymentValue
		}
		if metric.Orders > 0 {
			metric.AvgOrderValue = metric.Revenue / float64(metric.Orders)
		}
		monthly = append(monthly, metric)
	}

	growthRates := make([]float64, 0, len(monthly))
	for i := 1; i < len(monthly); i++ {
		prev := monthly[i-1].Revenue
		// Zero growth after a zero-revenue month: the rate is
		// undefined, not infinite.
		rate := 0.0
		if prev > 0 {
			rate = (monthly[i].Revenue - prev) / prev * 100
		}
		growthRates = append(growthRates, rate)
	}

	temporal := Temporal{Monthly: monthly, GrowthRates: growthRates}
	if len(growthRates) > 0 {
		sum := 0.0
		for _, rate := range growthRates {
			sum += rate
		}
		temporal.AvgGrowthRate = sum / float64(len(growthRates))
	}
	return temporal
}

func computeGeographic(orders []derive.Order) Geographic {
	groups := groupByState(orders)

	byState := make([]StateMetrics, 0, len(groups))
	totalRevenue := 0.0
	for _, group := range groups {
		metric := StateMetrics{State: group.State, Orders: len(group.Orders)}
		for _, order := range group.Orders {
			metric.Revenue += order.PaymentValue
		}
		if metric.Orders > 0 {
			metric.AvgOrderValue = metric.Revenue / float64(metric.Orders)
		}
		totalRevenue += metric.Revenue
		byState = append(byState, metric)
	}

	sort.SliceStable(byState, func(i, j int) bool {
		return byState[i].Revenue > byState[j].Revenue
	})

	geographic := Geographic{
		ByState: byState,
		Top10:   topN(byState, topEntries),
	}
	if totalRevenue > 0 {
		top3 := 0.0
		for _, metric := range topN(byState, 3) {
			top3 += metric.Revenue
		}
		geographic.Concentration = top3 / totalRevenue * 100
	}
	return geographic
}

func computeCategories(items []derive.Item) Categories {
	groups := groupByCategory(items)

	byCategory := make([]CategoryMetrics, 0, len(groups))
	for _, group := range groups {
		metric := CategoryMetrics{Category: group.Category, Items: len(group.Items)}
		for _, item := range group.Items {
			metric.Revenue += item.Price
		}
		if metric.Items > 0 {
			metric.AvgPrice = metric.Revenue / float64(metric.Items)
		}
		byCategory = append(byCategory, metric)
	}

	sort.SliceStable(byCategory, func(i, j int) bool {
		return byCategory[i].Revenue > byCategory[j].Revenue
	})

	return Categories{
		ByCategory: byCategory,
		Top10:      topN(byCategory, topEntries),
	}
}

func computeOperational(working *derive.Working) Operational {
	op := Operational{}

	validLeadTimes := make([]float64, 0, len(working.Orders))
	for _, order := range working.Orders {
		if order.LeadTimeDays == nil {
			continue
		}
		days := *order.LeadTimeDays
		if days < 0 {
			op.NegativeLeadTimes++
			continue
		}
		if days > leadTimeMax {
			op.OverRangeLeadTimes++
		}
		validLeadTimes = append(validLeadTimes, days)
	}
	if len(validLeadTimes) > 0 {
		sum := 0.0
		for _, days := range validLeadTimes {
			sum += days
		}
		op.AvgLeadTime = sum / float64(len(validLeadTimes))
	}
	op.LeadTimeDistribution = Histogram(validLeadTimes, leadTimeMin, leadTimeMax, leadTimeBins)

	for _, order := range working.Orders {
		if order.OnTime == nil {
			continue
		}
		op.TotalWithDelivery++
		if *order.OnTime {
			op.OnTimeOrders++
		}
	}
	if op.TotalWithDelivery > 0 {
		op.OnTimeRate = float64(op.OnTimeOrders) / float64(op.TotalWithDelivery) * 100
	}

	counts := make(map[int]int)
	scored, scoreSum := 0, 0
	for _, review := range working.Reviews {
		if !review.Score.Valid {
			continue
		}
		scored++
		scoreSum += review.Score.Value
		counts[review.Score.Value]++
	}
	if scored > 0 {
		op.AvgReviewScore = float64(scoreSum) / float64(scored)
	}
	op.ReviewDistribution = make([]ScoreCount, 0, maxReviewScore)
	for score := minReviewScore; score <= maxReviewScore; score++ {
		op.ReviewDistribution = append(op.ReviewDistribution, ScoreCount{Score: score, Count: counts[score]})
	}

	return op
}

func topN[T any](entries []T, n int) []T {
	if len(entries) < n {
		n = len(entries)
	}
	return entries[:n]
}
