package model

// ExtractedItem is one entry returned by the grocery-list extraction
// service. Price, when present, is already a per-unit value: the extractor
// contract requires a "total for N units" price to be divided by N before
// it is emitted, so nothing downstream re-divides.
//
// Price and Quantity are pointers so that "missing" stays distinguishable
// from zero until the single normalization step at the reconciliation
// boundary.
type ExtractedItem struct {
	Name     string   `json:"name" validate:"required"`
	Category Category `json:"category"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quantity *int     `json:"quantity,omitempty" validate:"omitempty,gte=1"`
}
