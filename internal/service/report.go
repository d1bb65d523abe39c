package service

import (
	"sort"
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/pkg/daykey"
)

// MonthlySpendByCategory sums price*quantity of every ledger entry falling
// in the given calendar month, bucketed by the owning item's category. The
// entry's own group never affects this total.
func MonthlySpendByCategory(items []model.GroceryItem, month time.Time) map[model.Category]float64 {
	monthKey := daykey.MonthFromTime(month)
	spend := make(map[model.Category]float64)
	for i := range items {
		for _, order := range items[i].OrderHistory {
			if daykey.MonthFromTime(order.Date) != monthKey {
				continue
			}
			spend[items[i].Category] += order.Price * float64(order.Quantity)
		}
	}
	return spend
}

// MonthlySpendByGroup sums the same month's entries bucketed by their
// spending group; unlabelled entries land in the Uncategorized bucket.
func MonthlySpendByGroup(items []model.GroceryItem, month time.Time) map[string]float64 {
	monthKey := daykey.MonthFromTime(month)
	spend := make(map[string]float64)
	for i := range items {
		for _, order := range items[i].OrderHistory {
			if daykey.MonthFromTime(order.Date) != monthKey {
				continue
			}
			group := order.Group
			if group == "" {
				group = model.UncategorizedGroup
			}
			spend[group] += order.Price * float64(order.Quantity)
		}
	}
	return spend
}

// PurchaseDatesIndex returns the sorted distinct calendar days that carry
// at least one purchase, plus a day -> orders grouping for date-detail
// display. Each returned order is annotated with its owning item's name.
func PurchaseDatesIndex(items []model.GroceryItem) ([]string, map[string][]model.Order) {
	byDay := make(map[string][]model.Order)
	for i := range items {
		for _, order := range items[i].OrderHistory {
			key := order.DayKey
			if key == "" {
				key = daykey.FromTime(order.Date)
			}
			order.ItemName = items[i].Name
			byDay[key] = append(byDay[key], order)
		}
	}
	days := make([]string, 0, len(byDay))
	for key := range byDay {
		days = append(days, key)
	}
	sort.Strings(days)
	return days, byDay
}
