package repository

import (
	"grocery-tracker-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.GroceryItem) error
	CreateTx(tx *gorm.DB, item *model.GroceryItem) error
	Update(tx *gorm.DB, item *model.GroceryItem) error
	Delete(userID, id uuid.UUID) error
	FindByID(userID, id uuid.UUID) (*model.GroceryItem, error)
	FindAll(userID uuid.UUID) ([]model.GroceryItem, error)
	AppendOrder(tx *gorm.DB, order *model.Order) error
	DeleteOrdersByDay(userID uuid.UUID, dayKey, group string) (int64, error)
	RelabelOrdersByDay(userID uuid.UUID, dayKey, currentGroup, newGroup string) (int64, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(item *model.GroceryItem) error {
	return r.CreateTx(r.db, item)
}

// CreateTx inserts the item together with any seed ledger entries.
func (r *itemRepo) CreateTx(tx *gorm.DB, item *model.GroceryItem) error {
	return tx.Create(item).Error
}

// Update saves the item's own columns only. Ledger rows are written through
// AppendOrder so an update can never rewrite history.
func (r *itemRepo) Update(tx *gorm.DB, item *model.GroceryItem) error {
	return tx.Omit("OrderHistory").Save(item).Error
}

func (r *itemRepo) Delete(userID, id uuid.UUID) error {
	res := r.db.Where("user_id = ?", userID).Delete(&model.GroceryItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepo) FindByID(userID, id uuid.UUID) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := r.db.Preload("OrderHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("date ASC")
	}).Where("user_id = ?", userID).First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) FindAll(userID uuid.UUID) ([]model.GroceryItem, error) {
	var items []model.GroceryItem
	err := r.db.Preload("OrderHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("date ASC")
	}).Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error
	return items, err
}

// AppendOrder takes a *gorm.DB so the append can share a transaction with
// the item update it belongs to.
func (r *itemRepo) AppendOrder(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *itemRepo) userItemIDs(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.GroceryItem{}).Select("id").Where("user_id = ?", userID)
}

// DeleteOrdersByDay removes every ledger entry on the given calendar day,
// scoped to one spending group unless group is model.GroupAll. Returns the
// number of removed rows; zero means nothing matched.
func (r *itemRepo) DeleteOrdersByDay(userID uuid.UUID, dayKey, group string) (int64, error) {
	q := r.db.Unscoped().
		Where("day_key = ?", dayKey).
		Where("item_id IN (?)", r.userItemIDs(userID))
	if group != model.GroupAll {
		q = q.Where("spend_group = ?", group)
	}
	res := q.Delete(&model.Order{})
	return res.RowsAffected, res.Error
}

// RelabelOrdersByDay rewrites the spending group on matching ledger entries.
// Rows already carrying the new group are left untouched so the affected
// count reflects real changes.
func (r *itemRepo) RelabelOrdersByDay(userID uuid.UUID, dayKey, currentGroup, newGroup string) (int64, error) {
	q := r.db.Model(&model.Order{}).
		Where("day_key = ?", dayKey).
		Where("item_id IN (?)", r.userItemIDs(userID)).
		Where("spend_group <> ?", newGroup)
	if currentGroup != model.GroupAll {
		q = q.Where("spend_group = ?", currentGroup)
	}
	res := q.Update("spend_group", newGroup)
	return res.RowsAffected, res.Error
}
