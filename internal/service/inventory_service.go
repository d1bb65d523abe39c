package service

import (
	"errors"
	"fmt"
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/repository"
	"grocery-tracker-ws/internal/ws"
	"grocery-tracker-ws/pkg/daykey"
	"grocery-tracker-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidStatus   = errors.New("unknown stock status")
)

type InventoryService interface {
	GetItems(userID uuid.UUID) ([]model.GroceryItem, error)
	GetItem(userID, id uuid.UUID) (*model.GroceryItem, error)
	CreateItem(userID uuid.UUID, req *model.GroceryItem) error
	UpdateItem(userID, id uuid.UUID, req *model.GroceryItem) (*model.GroceryItem, error)
	DeleteItem(userID, id uuid.UUID, fromShoppingList bool) error
	ChangeStatus(userID, id uuid.UUID, status model.StockStatus, quantity *int) (*model.GroceryItem, error)
	ChangeQuantity(userID, id uuid.UUID, quantity int) (*model.GroceryItem, error)
	DeletePurchasesByDate(userID uuid.UUID, date time.Time, group string) (int64, error)
	RelabelPurchasesByDate(userID uuid.UUID, date time.Time, currentGroup, newGroup string) (int64, error)
}

type inventoryService struct {
	itemRepo repository.ItemRepository
	db       *gorm.DB
	wsHub    *ws.Hub
}

func NewInventoryService(itemRepo repository.ItemRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		itemRepo: itemRepo,
		db:       db,
		wsHub:    hub,
	}
}

// stockingOrder builds the ledger entry recorded when an item moves into
// In Stock. It always uses the item's current price, never a price supplied
// by the transition itself.
func stockingOrder(item *model.GroceryItem, date time.Time, quantity int) model.Order {
	group := item.DefaultGroup
	if group == "" {
		group = model.DefaultGroupLabel
	}
	return model.Order{
		ItemID:   item.ID,
		Date:     date,
		DayKey:   daykey.FromTime(date),
		Price:    item.Price,
		Quantity: quantity,
		Group:    group,
	}
}

func (s *inventoryService) GetItems(userID uuid.UUID) ([]model.GroceryItem, error) {
	return s.itemRepo.FindAll(userID)
}

func (s *inventoryService) GetItem(userID, id uuid.UUID) (*model.GroceryItem, error) {
	item, err := s.itemRepo.FindByID(userID, id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *inventoryService) CreateItem(userID uuid.UUID, req *model.GroceryItem) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if !model.ValidStatus(req.Status) {
		return ErrInvalidStatus
	}

	req.UserID = userID
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	req.OrderHistory = nil
	// An item born In Stock starts its ledger with the initial purchase.
	if req.Status == model.StatusInStock {
		req.OrderHistory = []model.Order{stockingOrder(req, time.Now(), req.Quantity)}
	}

	if err := s.itemRepo.Create(req); err != nil {
		return err
	}

	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":   "inventory_update",
		"action": "item_created",
		"item":   req,
	})
	return nil
}

func (s *inventoryService) UpdateItem(userID, id uuid.UUID, req *model.GroceryItem) (*model.GroceryItem, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if !model.ValidStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	var updated *model.GroceryItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.itemRepo.FindByID(userID, id)
		if err != nil {
			return ErrItemNotFound
		}

		wasInStock := existing.Status == model.StatusInStock

		existing.Name = req.Name
		existing.Category = req.Category
		existing.Price = req.Price
		existing.Status = req.Status
		existing.DefaultGroup = req.DefaultGroup
		if req.Quantity >= 1 {
			existing.Quantity = req.Quantity
		}
		if existing.Status == model.StatusNeedToOrder {
			existing.Quantity = 1 // back on the shopping list wants exactly one
		}

		if err := s.itemRepo.Update(tx, existing); err != nil {
			return err
		}

		if existing.Status == model.StatusInStock && !wasInStock {
			order := stockingOrder(existing, time.Now(), existing.Quantity)
			if err := s.itemRepo.AppendOrder(tx, &order); err != nil {
				return err
			}
			existing.OrderHistory = append(existing.OrderHistory, order)
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":   "inventory_update",
		"action": "item_updated",
		"item":   updated,
	})
	return updated, nil
}

// DeleteItem removes the item permanently, or moves it to Don't Need when
// the delete came from the shopping list (a soft removal that keeps the
// ledger reachable).
func (s *inventoryService) DeleteItem(userID, id uuid.UUID, fromShoppingList bool) error {
	if fromShoppingList {
		_, err := s.ChangeStatus(userID, id, model.StatusDontNeed, nil)
		return err
	}
	if err := s.itemRepo.Delete(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":    "inventory_update",
		"action":  "item_deleted",
		"item_id": id,
	})
	return nil
}

// ChangeStatus applies a status transition. All transitions are allowed;
// only moving into In Stock from another status records a purchase, and
// moving into Need to Order resets the want-count to 1.
func (s *inventoryService) ChangeStatus(userID, id uuid.UUID, status model.StockStatus, quantity *int) (*model.GroceryItem, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var updated *model.GroceryItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.FindByID(userID, id)
		if err != nil {
			return ErrItemNotFound
		}

		wasInStock := item.Status == model.StatusInStock
		item.Status = status
		if status == model.StatusNeedToOrder {
			item.Quantity = 1
		}

		if err := s.itemRepo.Update(tx, item); err != nil {
			return err
		}

		if status == model.StatusInStock && !wasInStock {
			qty := item.Quantity
			if quantity != nil && *quantity >= 1 {
				qty = *quantity
			}
			order := stockingOrder(item, time.Now(), qty)
			if err := s.itemRepo.AppendOrder(tx, &order); err != nil {
				return err
			}
			item.OrderHistory = append(item.OrderHistory, order)
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":   "inventory_update",
		"action": "status_changed",
		"item":   updated,
	})
	return updated, nil
}

func (s *inventoryService) ChangeQuantity(userID, id uuid.UUID, quantity int) (*model.GroceryItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.itemRepo.FindByID(userID, id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	item.Quantity = quantity
	if err := s.itemRepo.Update(s.db, item); err != nil {
		return nil, err
	}

	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":   "inventory_update",
		"action": "quantity_changed",
		"item":   item,
	})
	return item, nil
}

// DeletePurchasesByDate removes every ledger entry on the given calendar
// day for the given spending group (model.GroupAll removes all groups).
// The returned count lets callers distinguish "nothing matched" from a
// successful deletion.
func (s *inventoryService) DeletePurchasesByDate(userID uuid.UUID, date time.Time, group string) (int64, error) {
	affected, err := s.itemRepo.DeleteOrdersByDay(userID, daykey.FromTime(date), group)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.wsHub.Notify(userID.String(), map[string]interface{}{
			"type":    "inventory_update",
			"action":  "purchases_deleted",
			"day":     daykey.FromTime(date),
			"group":   group,
			"removed": affected,
		})
	}
	return affected, nil
}

// RelabelPurchasesByDate rewrites the spending group on that day's ledger
// entries. currentGroup may be model.GroupAll to match every group.
func (s *inventoryService) RelabelPurchasesByDate(userID uuid.UUID, date time.Time, currentGroup, newGroup string) (int64, error) {
	if newGroup == "" {
		return 0, errors.New("new group is required")
	}
	affected, err := s.itemRepo.RelabelOrdersByDay(userID, daykey.FromTime(date), currentGroup, newGroup)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.wsHub.Notify(userID.String(), map[string]interface{}{
			"type":      "inventory_update",
			"action":    "purchases_relabelled",
			"day":       daykey.FromTime(date),
			"group":     newGroup,
			"relabeled": affected,
		})
	}
	return affected, nil
}
