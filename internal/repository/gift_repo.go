package repository

import (
	"grocery-tracker-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GiftRepository interface {
	Create(gift *model.GiftItem) error
	Update(gift *model.GiftItem) error
	Delete(userID, id uuid.UUID) error
	FindByID(userID, id uuid.UUID) (*model.GiftItem, error)
	FindAll(userID uuid.UUID) ([]model.GiftItem, error)
	FindByEvent(userID, eventID uuid.UUID) ([]model.GiftItem, error)
}

type giftRepo struct {
	db *gorm.DB
}

func NewGiftRepo(db *gorm.DB) GiftRepository {
	return &giftRepo{db}
}

func (r *giftRepo) Create(gift *model.GiftItem) error {
	return r.db.Create(gift).Error
}

func (r *giftRepo) Update(gift *model.GiftItem) error {
	return r.db.Save(gift).Error
}

func (r *giftRepo) Delete(userID, id uuid.UUID) error {
	res := r.db.Where("user_id = ?", userID).Delete(&model.GiftItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *giftRepo) FindByID(userID, id uuid.UUID) (*model.GiftItem, error) {
	var gift model.GiftItem
	err := r.db.Where("user_id = ?", userID).First(&gift, "id = ?", id).Error
	return &gift, err
}

func (r *giftRepo) FindAll(userID uuid.UUID) ([]model.GiftItem, error) {
	var gifts []model.GiftItem
	err := r.db.Where("user_id = ?", userID).Order("purchase_date DESC").Find(&gifts).Error
	return gifts, err
}

func (r *giftRepo) FindByEvent(userID, eventID uuid.UUID) ([]model.GiftItem, error) {
	var gifts []model.GiftItem
	err := r.db.Where("user_id = ? AND for_event_id = ?", userID, eventID).
		Order("purchase_date DESC").Find(&gifts).Error
	return gifts, err
}
