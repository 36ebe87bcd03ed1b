package kpi

import (
	"sort"

	"github.com/tarea-javier/olist-insights/internal/derive"
)

// unknownCategory buckets items whose product or category could not be
// resolved; they stay in category metrics instead of being dropped.
const unknownCategory = "Unknown"

type monthGroup struct {
	Month  string
	Orders []derive.Order
}

type stateGroup struct {
	State  string
	Orders []derive.Order
}

type categoryGroup struct {
	Category string
	Items    []derive.Item
}

// groupByMonth partitions by the year-month bucket key, sorted ascending.
// Lexical order is chronological because the key is zero-padded.
func groupByMonth(orders []derive.Order) []monthGroup {
	grouped := make(map[string][]derive.Order)
	for _, order := range orders {
		grouped[order.YearMonth] = append(grouped[order.YearMonth], order)
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]monthGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, monthGroup{Month: key, Orders: grouped[key]})
	}
	return groups
}

// groupByState partitions by customer state in first-seen order. Orders
// with no resolvable state are dropped from this grouping only.
func groupByState(orders []derive.Order) []stateGroup {
	index := make(map[string]int)
	groups := make([]stateGroup, 0)
	for _, order := range orders {
		if order.CustomerState == nil || *order.CustomerState == "" {
			continue
		}
		state := *order.CustomerState
		i, ok := index[state]
		if !ok {
			i = len(groups)
			index[state] = i
			groups = append(groups, stateGroup{State: state})
		}
		groups[i].Orders = append(groups[i].Orders, order)
	}
	return groups
}

// groupByCategory partitions items by resolved category in first-seen
// order, with unresolved items collected under "Unknown".
func groupByCategory(items []derive.Item) []categoryGroup {
	index := make(map[string]int)
	groups := make([]categoryGroup, 0)
	for _, item := range items {
		category := unknownCategory
		if item.Category != nil && *item.Category != "" {
			category = *item.Category
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, categoryGroup{Category: category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
