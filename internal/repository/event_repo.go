package repository

import (
	"grocery-tracker-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(event *model.ShoppingEvent) error
	Update(event *model.ShoppingEvent) error
	Delete(userID, id uuid.UUID) error
	FindByID(userID, id uuid.UUID) (*model.ShoppingEvent, error)
	FindAll(userID uuid.UUID) ([]model.ShoppingEvent, error)
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db}
}

func (r *eventRepo) Create(event *model.ShoppingEvent) error {
	return r.db.Create(event).Error
}

func (r *eventRepo) Update(event *model.ShoppingEvent) error {
	return r.db.Save(event).Error
}

func (r *eventRepo) Delete(userID, id uuid.UUID) error {
	res := r.db.Where("user_id = ?", userID).Delete(&model.ShoppingEvent{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepo) FindByID(userID, id uuid.UUID) (*model.ShoppingEvent, error) {
	var event model.ShoppingEvent
	err := r.db.Where("user_id = ?", userID).First(&event, "id = ?", id).Error
	return &event, err
}

func (r *eventRepo) FindAll(userID uuid.UUID) ([]model.ShoppingEvent, error) {
	var events []model.ShoppingEvent
	err := r.db.Where("user_id = ?", userID).Order("date ASC").Find(&events).Error
	return events, err
}
