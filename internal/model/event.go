package model

import (
	"time"

	"github.com/google/uuid"
)

// Well-known event categories. Any other non-empty value is treated as a
// custom one-off category.
const (
	EventBirthday    = "Birthday"
	EventAnniversary = "Anniversary"
)

// ShoppingEvent is a personal occasion to shop for. Birthdays and
// anniversaries recur every year; custom categories do not.
type ShoppingEvent struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=2"`
	Category string    `gorm:"type:varchar(100);not null" json:"category" validate:"required,min=2"`
	Date     time.Time `gorm:"not null" json:"date"`
	Notes    string    `json:"notes,omitempty"`
}

// Recurring reports whether the event repeats yearly.
func (e *ShoppingEvent) Recurring() bool {
	return e.Category == EventBirthday || e.Category == EventAnniversary
}

// NextOccurrence returns the next calendar occurrence of the event on or
// after today. Non-recurring events always return their own date.
func (e *ShoppingEvent) NextOccurrence(today time.Time) time.Time {
	if !e.Recurring() {
		return e.Date
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	next := time.Date(today.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, today.Location())
	if next.Before(day) {
		next = next.AddDate(1, 0, 0)
	}
	return next
}
