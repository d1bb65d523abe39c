package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of grocery categories. It drives validation,
// matching buckets and spend reports alike.
type Category string

const (
	CategoryPantry   Category = "Pantry"
	CategoryProduce  Category = "Produce"
	CategoryDairy    Category = "Dairy"
	CategoryMeat     Category = "Meat"
	CategoryBakery   Category = "Bakery"
	CategoryFrozen   Category = "Frozen"
	CategoryCleaning Category = "Cleaning"
	CategorySnacks   Category = "Snacks"
	CategoryOther    Category = "Other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryPantry,
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryBakery,
	CategoryFrozen,
	CategoryCleaning,
	CategorySnacks,
	CategoryOther,
}

// NormalizeCategory maps any string to a valid Category. Unknown values
// become Other, matching the extractor boundary contract.
func NormalizeCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// StockStatus is the item's shopping-list state. All transitions between
// statuses are allowed; only moving into StatusInStock from another status
// records a purchase.
type StockStatus string

const (
	StatusInStock     StockStatus = "In Stock"
	StatusNeedToOrder StockStatus = "Need to Order"
	StatusOutOfStock  StockStatus = "Out of Stock"
	StatusDontNeed    StockStatus = "Don't Need"
)

// ValidStatus reports whether s is one of the four stock statuses. The
// values contain spaces so they cannot be expressed as a validator oneof tag.
func ValidStatus(s StockStatus) bool {
	switch s {
	case StatusInStock, StatusNeedToOrder, StatusOutOfStock, StatusDontNeed:
		return true
	}
	return false
}

// GroceryItem is one tracked product. Price is always per unit (the latest
// known unit price) and Quantity is the current want-count, not a running
// purchase total.
type GroceryItem struct {
	BaseModel
	UserID       uuid.UUID   `gorm:"type:uuid;index;not null" json:"-"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category     Category    `gorm:"type:varchar(20);not null" json:"category" validate:"required,oneof=Pantry Produce Dairy Meat Bakery Frozen Cleaning Snacks Other"`
	Quantity     int         `gorm:"default:1" json:"quantity" validate:"omitempty,gte=1"`
	Price        float64     `gorm:"default:0" json:"price" validate:"gte=0"` // per unit
	Status       StockStatus `gorm:"type:varchar(20);not null" json:"status" validate:"required"`
	DefaultGroup string      `gorm:"type:varchar(100)" json:"default_group,omitempty"`

	// Append-only purchase ledger
	OrderHistory []Order `gorm:"foreignKey:ItemID" json:"order_history"`
}

// Order is one purchase event in an item's ledger. Rows are never updated
// in place except for group relabelling; deletion only happens through the
// user-initiated bulk operations.
type Order struct {
	BaseModel
	ItemID   uuid.UUID `gorm:"type:uuid;index;not null" json:"item_id"`
	Date     time.Time `gorm:"not null" json:"date"`
	DayKey   string    `gorm:"type:varchar(10);index;not null" json:"day_key"` // canonical UTC YYYY-MM-DD
	Price    float64   `gorm:"not null" json:"price" validate:"gte=0"`         // per unit, as paid that day
	Quantity int       `gorm:"default:1" json:"quantity" validate:"gte=1"`
	Group    string    `gorm:"type:varchar(100);column:spend_group" json:"group,omitempty"`

	// Set when returning orders for date-detail display, never persisted.
	ItemName string `gorm:"-" json:"item_name,omitempty"`
}

// GroupAll is the wildcard accepted by the bulk delete/relabel operations.
const GroupAll = "All"

// DefaultGroupLabel is used when a stocking event has no group of its own
// and the item has no default group either.
const DefaultGroupLabel = "Personal"

// UncategorizedGroup is the report bucket for orders without a group.
const UncategorizedGroup = "Uncategorized"
