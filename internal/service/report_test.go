package service

import (
	"testing"
	"time"

	"grocery-tracker-ws/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func reportFixture() []model.GroceryItem {
	return []model.GroceryItem{
		{
			Name:     "Milk",
			Category: model.CategoryDairy,
			OrderHistory: []model.Order{
				{Date: day(2024, 3, 1), DayKey: "2024-03-01", Price: 3.8, Quantity: 2, Group: "Personal"},
				{Date: day(2024, 3, 15), DayKey: "2024-03-15", Price: 3.5, Quantity: 1, Group: "Work"},
				{Date: day(2024, 2, 20), DayKey: "2024-02-20", Price: 3.4, Quantity: 1, Group: "Personal"},
			},
		},
		{
			Name:     "Bread",
			Category: model.CategoryBakery,
			OrderHistory: []model.Order{
				{Date: day(2024, 3, 1), DayKey: "2024-03-01", Price: 4.25, Quantity: 1},
			},
		},
		{
			Name:         "Avocados",
			Category:     model.CategoryProduce,
			OrderHistory: nil,
		},
	}
}

func TestMonthlySpendByCategory(t *testing.T) {
	spend := MonthlySpendByCategory(reportFixture(), day(2024, 3, 1))

	// 3.8*2 + 3.5*1 = 11.1 for Dairy in March; February entry excluded.
	if got := spend[model.CategoryDairy]; got != 11.1 {
		t.Fatalf("Dairy spend = %v, want 11.1", got)
	}
	if got := spend[model.CategoryBakery]; got != 4.25 {
		t.Fatalf("Bakery spend = %v, want 4.25", got)
	}
	if _, ok := spend[model.CategoryProduce]; ok {
		t.Fatal("expected no bucket for category with no purchases")
	}
}

func TestMonthlySpendByCategoryIgnoresGroup(t *testing.T) {
	items := reportFixture()
	before := MonthlySpendByCategory(items, day(2024, 3, 1))

	// Relabelling a group must never move category totals.
	items[0].OrderHistory[0].Group = "Work"
	after := MonthlySpendByCategory(items, day(2024, 3, 1))

	if before[model.CategoryDairy] != after[model.CategoryDairy] {
		t.Fatalf("category total changed with group: %v -> %v", before[model.CategoryDairy], after[model.CategoryDairy])
	}
}

func TestMonthlySpendByGroup(t *testing.T) {
	spend := MonthlySpendByGroup(reportFixture(), day(2024, 3, 1))

	if got := spend["Personal"]; got != 7.6 {
		t.Fatalf("Personal spend = %v, want 7.6", got)
	}
	if got := spend["Work"]; got != 3.5 {
		t.Fatalf("Work spend = %v, want 3.5", got)
	}
	if got := spend[model.UncategorizedGroup]; got != 4.25 {
		t.Fatalf("Uncategorized spend = %v, want 4.25", got)
	}
}

func TestPurchaseDatesIndex(t *testing.T) {
	days, byDay := PurchaseDatesIndex(reportFixture())

	want := []string{"2024-02-20", "2024-03-01", "2024-03-15"}
	if len(days) != len(want) {
		t.Fatalf("days = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("days = %v, want %v", days, want)
		}
	}

	march1 := byDay["2024-03-01"]
	if len(march1) != 2 {
		t.Fatalf("expected 2 orders on 2024-03-01, got %d", len(march1))
	}
	names := map[string]bool{}
	for _, order := range march1 {
		names[order.ItemName] = true
	}
	if !names["Milk"] || !names["Bread"] {
		t.Fatalf("expected orders annotated with item names, got %v", names)
	}
}

func TestPurchaseDatesIndexEmpty(t *testing.T) {
	days, byDay := PurchaseDatesIndex(nil)
	if len(days) != 0 || len(byDay) != 0 {
		t.Fatalf("expected empty index, got %v / %v", days, byDay)
	}
}
