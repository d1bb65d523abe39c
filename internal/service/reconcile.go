package service

import (
	"errors"
	"strings"
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/pkg/daykey"
)

var ErrNegativePrice = errors.New("price cannot be negative")

// NormalizeQuantity resolves an optional extracted quantity. Missing or
// sub-1 values become 1.
func NormalizeQuantity(q *int) int {
	if q == nil || *q < 1 {
		return 1
	}
	return *q
}

// NormalizePrice resolves an optional extracted price. Missing means 0; a
// negative price is a validation error, never clamped. The value is trusted
// to already be per-unit (the extractor divides multi-unit totals), so this
// never re-divides.
func NormalizePrice(p *float64) (float64, error) {
	if p == nil {
		return 0, nil
	}
	if *p < 0 {
		return 0, ErrNegativePrice
	}
	return *p, nil
}

// MatchItem finds the inventory item representing the same product as the
// extracted one: a linear scan for case-insensitive exact name equality,
// first match wins. Deliberately no fuzzy or category matching.
func MatchItem(extracted model.ExtractedItem, inventory []model.GroceryItem) *model.GroceryItem {
	want := strings.ToLower(extracted.Name)
	for i := range inventory {
		if strings.ToLower(inventory[i].Name) == want {
			return &inventory[i]
		}
	}
	return nil
}

// ReconcileSummary counts the effects of one reconciliation batch.
type ReconcileSummary struct {
	ItemsUpdated int `json:"items_updated"`
	ItemsCreated int `json:"items_created"`
}

// ItemUpdate pairs an updated inventory item with the ledger entry that the
// purchase appends to it. The two are written in one transaction.
type ItemUpdate struct {
	Item  model.GroceryItem
	Order model.Order
}

// BuildReconciliation converts a batch of extracted items plus the
// user-confirmed purchase date and spending group into concrete update and
// create operations against the given inventory snapshot. Pure: it mutates
// nothing and touches no store.
//
// Matched items are topped up additively (existing + extracted - 1), keep
// the extracted price when one was read, move to In Stock and gain one
// ledger entry. Unmatched extracted items become new In Stock items whose
// ledger starts with the purchase.
func BuildReconciliation(extracted []model.ExtractedItem, inventory []model.GroceryItem, purchaseDate time.Time, group string) ([]ItemUpdate, []model.GroceryItem, ReconcileSummary, error) {
	var (
		updates []ItemUpdate
		creates []model.GroceryItem
		summary ReconcileSummary
	)
	if len(extracted) == 0 {
		return nil, nil, summary, nil
	}

	key := daykey.FromTime(purchaseDate)

	// Each inventory item merges with at most its first matching extracted
	// entry; inventory order stays stable.
	for i := range inventory {
		existing := inventory[i]
		var match *model.ExtractedItem
		for j := range extracted {
			if strings.EqualFold(extracted[j].Name, existing.Name) {
				match = &extracted[j]
				break
			}
		}
		if match == nil {
			continue
		}

		price, err := NormalizePrice(match.Price)
		if err != nil {
			return nil, nil, ReconcileSummary{}, err
		}
		qty := NormalizeQuantity(match.Quantity)
		if match.Price == nil {
			price = existing.Price // no extracted price: keep the known one
		}

		baseQty := existing.Quantity
		if baseQty < 1 {
			baseQty = 1
		}
		updated := existing
		updated.Status = model.StatusInStock
		updated.Price = price
		updated.Quantity = baseQty + qty - 1 // additive top-up
		updates = append(updates, ItemUpdate{
			Item: updated,
			Order: model.Order{
				ItemID:   existing.ID,
				Date:     purchaseDate,
				DayKey:   key,
				Price:    price,
				Quantity: qty,
				Group:    group,
			},
		})
		summary.ItemsUpdated++
	}

	for j := range extracted {
		if MatchItem(extracted[j], inventory) != nil {
			continue
		}
		price, err := NormalizePrice(extracted[j].Price)
		if err != nil {
			return nil, nil, ReconcileSummary{}, err
		}
		qty := NormalizeQuantity(extracted[j].Quantity)

		creates = append(creates, model.GroceryItem{
			Name:         extracted[j].Name,
			Category:     model.NormalizeCategory(string(extracted[j].Category)),
			Price:        price,
			Quantity:     qty,
			Status:       model.StatusInStock,
			DefaultGroup: group,
			OrderHistory: []model.Order{{
				Date:     purchaseDate,
				DayKey:   key,
				Price:    price,
				Quantity: qty,
				Group:    group,
			}},
		})
		summary.ItemsCreated++
	}

	return updates, creates, summary, nil
}
