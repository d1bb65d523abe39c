package model

import (
	"time"

	"github.com/google/uuid"
)

// GiftItem is a tracked gift purchase, optionally tied to a ShoppingEvent.
type GiftItem struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=2"`
	Recipient    string     `gorm:"type:varchar(255);not null" json:"recipient" validate:"required,min=2"`
	Price        float64    `gorm:"default:0" json:"price" validate:"gte=0"`
	PurchaseDate time.Time  `gorm:"not null" json:"purchase_date"`
	ForEventID   *uuid.UUID `gorm:"type:uuid;index" json:"for_event_id,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}
