package service

import (
	"fmt"
	"testing"
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/repository"
	"grocery-tracker-ws/internal/ws"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.GroceryItem{}, &model.Order{}, &model.ShoppingEvent{}, &model.GiftItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// A single connection serializes concurrent writers; shared-cache
	// in-memory sqlite locks up otherwise.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func setupInventory(t *testing.T) (InventoryService, repository.ItemRepository, *gorm.DB, uuid.UUID) {
	db := setupTestDB(t)
	hub := ws.NewHub()
	go hub.Run()
	repo := repository.NewItemRepo(db)
	return NewInventoryService(repo, db, hub), repo, db, uuid.New()
}

func seedItem(t *testing.T, svc InventoryService, userID uuid.UUID, item model.GroceryItem) *model.GroceryItem {
	if err := svc.CreateItem(userID, &item); err != nil {
		t.Fatalf("seed item %q: %v", item.Name, err)
	}
	return &item
}

func TestCreateItemInStockSeedsLedger(t *testing.T) {
	svc, repo, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Organic Milk",
		Category: model.CategoryDairy,
		Price:    3.5,
		Quantity: 2,
		Status:   model.StatusInStock,
	})

	stored, err := repo.FindByID(userID, item.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(stored.OrderHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(stored.OrderHistory))
	}
	order := stored.OrderHistory[0]
	if order.Price != 3.5 || order.Quantity != 2 {
		t.Fatalf("seed order = %+v", order)
	}
	if order.Group != model.DefaultGroupLabel {
		t.Fatalf("seed order group = %q, want %q", order.Group, model.DefaultGroupLabel)
	}
	if order.DayKey == "" {
		t.Fatal("seed order missing day key")
	}
}

func TestCreateItemNeedToOrderHasEmptyLedger(t *testing.T) {
	svc, repo, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Avocados",
		Category: model.CategoryProduce,
		Price:    1.5,
		Status:   model.StatusNeedToOrder,
	})

	stored, _ := repo.FindByID(userID, item.ID)
	if len(stored.OrderHistory) != 0 {
		t.Fatalf("history length = %d, want 0", len(stored.OrderHistory))
	}
}

func TestCreateItemRejectsInvalidInput(t *testing.T) {
	svc, _, _, userID := setupInventory(t)

	if err := svc.CreateItem(userID, &model.GroceryItem{Category: model.CategoryDairy, Status: model.StatusInStock}); err == nil {
		t.Fatal("expected validation error for missing name")
	}
	if err := svc.CreateItem(userID, &model.GroceryItem{Name: "Milk", Category: model.CategoryDairy, Price: -1, Status: model.StatusInStock}); err == nil {
		t.Fatal("expected validation error for negative price")
	}
	if err := svc.CreateItem(userID, &model.GroceryItem{Name: "Milk", Category: model.CategoryDairy, Status: "Lost"}); err != ErrInvalidStatus {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestTransitionIntoInStockAppendsExactlyOneOrder(t *testing.T) {
	svc, repo, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Sourdough Bread",
		Category: model.CategoryBakery,
		Price:    4.25,
		Status:   model.StatusOutOfStock,
	})

	if _, err := svc.ChangeStatus(userID, item.ID, model.StatusInStock, nil); err != nil {
		t.Fatalf("change status: %v", err)
	}

	stored, _ := repo.FindByID(userID, item.ID)
	if len(stored.OrderHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(stored.OrderHistory))
	}
	if stored.OrderHistory[0].Price != 4.25 {
		t.Fatalf("order price = %v, want the item's current price", stored.OrderHistory[0].Price)
	}
}

func TestReconfirmingInStockAppendsNothing(t *testing.T) {
	svc, repo, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Eggs",
		Category: model.CategoryDairy,
		Price:    5.0,
		Status:   model.StatusInStock,
	})

	if _, err := svc.ChangeStatus(userID, item.ID, model.StatusInStock, nil); err != nil {
		t.Fatalf("change status: %v", err)
	}

	stored, _ := repo.FindByID(userID, item.ID)
	if len(stored.OrderHistory) != 1 { // only the creation seed
		t.Fatalf("history length = %d, want 1", len(stored.OrderHistory))
	}
}

func TestTransitionsBetweenNonInStockAppendNothing(t *testing.T) {
	svc, repo, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Frozen Peas",
		Category: model.CategoryFrozen,
		Price:    2.19,
		Status:   model.StatusNeedToOrder,
	})

	for _, status := range []model.StockStatus{model.StatusOutOfStock, model.StatusDontNeed, model.StatusNeedToOrder} {
		if _, err := svc.ChangeStatus(userID, item.ID, status, nil); err != nil {
			t.Fatalf("change status to %q: %v", status, err)
		}
	}

	stored, _ := repo.FindByID(userID, item.ID)
	if len(stored.OrderHistory) != 0 {
		t.Fatalf("history length = %d, want 0", len(stored.OrderHistory))
	}
}

func TestNeedToOrderResetsQuantity(t *testing.T) {
	svc, _, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Pasta",
		Category: model.CategoryPantry,
		Price:    1.29,
		Quantity: 5,
		Status:   model.StatusInStock,
	})

	updated, err := svc.ChangeStatus(userID, item.ID, model.StatusNeedToOrder, nil)
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Quantity != 1 {
		t.Fatalf("quantity = %d, want 1 after moving to shopping list", updated.Quantity)
	}
}

func TestLedgerIsAppendOnly(t *testing.T) {
	svc, repo, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Chicken Breast",
		Category: model.CategoryMeat,
		Price:    9.99,
		Status:   model.StatusInStock,
	})

	// Bounce the item out of stock and back twice, changing the price in
	// between; each return appends one record and touches none before it.
	prices := []float64{10.49, 10.99}
	for _, price := range prices {
		if _, err := svc.ChangeStatus(userID, item.ID, model.StatusOutOfStock, nil); err != nil {
			t.Fatalf("out of stock: %v", err)
		}
		stored, _ := repo.FindByID(userID, item.ID)
		stored.Price = price
		if _, err := svc.UpdateItem(userID, item.ID, stored); err != nil {
			t.Fatalf("price update: %v", err)
		}
		if _, err := svc.ChangeStatus(userID, item.ID, model.StatusInStock, nil); err != nil {
			t.Fatalf("restock: %v", err)
		}
	}

	stored, _ := repo.FindByID(userID, item.ID)
	if len(stored.OrderHistory) != 3 {
		t.Fatalf("history length = %d, want 3", len(stored.OrderHistory))
	}
	if stored.OrderHistory[0].Price != 9.99 {
		t.Fatalf("first record mutated: %v", stored.OrderHistory[0].Price)
	}
	if stored.OrderHistory[1].Price != 10.49 || stored.OrderHistory[2].Price != 10.99 {
		t.Fatalf("appended records = %v, %v", stored.OrderHistory[1].Price, stored.OrderHistory[2].Price)
	}
}

func TestChangeQuantityRejectsBelowOne(t *testing.T) {
	svc, _, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{
		Name:     "Tomato Sauce",
		Category: model.CategoryPantry,
		Price:    2.5,
		Status:   model.StatusNeedToOrder,
	})

	if _, err := svc.ChangeQuantity(userID, item.ID, 0); err != ErrInvalidQuantity {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.ChangeQuantity(userID, item.ID, 4); err != nil {
		t.Fatalf("valid quantity rejected: %v", err)
	}
}

func seedOrders(t *testing.T, repo repository.ItemRepository, db *gorm.DB, itemID uuid.UUID, orders []model.Order) {
	for i := range orders {
		orders[i].ItemID = itemID
		if err := repo.AppendOrder(db, &orders[i]); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}
}

func TestDeletePurchasesByDateScoping(t *testing.T) {
	svc, repo, db, userID := setupInventory(t)

	milk := seedItem(t, svc, userID, model.GroceryItem{Name: "Milk", Category: model.CategoryDairy, Status: model.StatusNeedToOrder})
	bread := seedItem(t, svc, userID, model.GroceryItem{Name: "Bread", Category: model.CategoryBakery, Status: model.StatusNeedToOrder})

	target := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	other := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	seedOrders(t, repo, db, milk.ID, []model.Order{
		{Date: target, DayKey: "2024-03-01", Price: 3.8, Quantity: 1, Group: "Personal"},
		{Date: target, DayKey: "2024-03-01", Price: 3.8, Quantity: 1, Group: "Work"},
		{Date: other, DayKey: "2024-03-02", Price: 3.8, Quantity: 1, Group: "Personal"},
	})
	seedOrders(t, repo, db, bread.ID, []model.Order{
		{Date: target, DayKey: "2024-03-01", Price: 4.25, Quantity: 1, Group: "Personal"},
	})

	// Group-scoped delete removes only that day's matching group.
	removed, err := svc.DeletePurchasesByDate(userID, target, "Personal")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	storedMilk, _ := repo.FindByID(userID, milk.ID)
	if len(storedMilk.OrderHistory) != 2 {
		t.Fatalf("milk history = %d, want 2 (Work on target day + other day)", len(storedMilk.OrderHistory))
	}

	// Wildcard delete clears the rest of the day across items.
	removed, err = svc.DeletePurchasesByDate(userID, target, model.GroupAll)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	storedMilk, _ = repo.FindByID(userID, milk.ID)
	if len(storedMilk.OrderHistory) != 1 || storedMilk.OrderHistory[0].DayKey != "2024-03-02" {
		t.Fatalf("other-day record lost: %+v", storedMilk.OrderHistory)
	}
}

func TestDeletePurchasesZeroEffect(t *testing.T) {
	svc, _, _, userID := setupInventory(t)

	removed, err := svc.DeletePurchasesByDate(userID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), model.GroupAll)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}

func TestRelabelPurchasesByDate(t *testing.T) {
	svc, repo, db, userID := setupInventory(t)

	milk := seedItem(t, svc, userID, model.GroceryItem{Name: "Milk", Category: model.CategoryDairy, Status: model.StatusNeedToOrder})

	target := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	seedOrders(t, repo, db, milk.ID, []model.Order{
		{Date: target, DayKey: "2024-03-01", Price: 3.8, Quantity: 1, Group: "Personal"},
		{Date: target, DayKey: "2024-03-01", Price: 3.8, Quantity: 1, Group: "Work"},
		{Date: target, DayKey: "2024-03-01", Price: 3.8, Quantity: 1, Group: "Groceries"},
	})

	// Exact-group relabel touches one record.
	changed, err := svc.RelabelPurchasesByDate(userID, target, "Personal", "Groceries")
	if err != nil {
		t.Fatalf("relabel: %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}

	// Wildcard relabel skips records already carrying the new label.
	changed, err = svc.RelabelPurchasesByDate(userID, target, model.GroupAll, "Groceries")
	if err != nil {
		t.Fatalf("relabel all: %v", err)
	}
	if changed != 1 { // only the Work record still differs
		t.Fatalf("changed = %d, want 1", changed)
	}

	stored, _ := repo.FindByID(userID, milk.ID)
	for _, order := range stored.OrderHistory {
		if order.Group != "Groceries" {
			t.Fatalf("order group = %q, want Groceries", order.Group)
		}
	}

	// Fully converged day reports zero effect.
	changed, err = svc.RelabelPurchasesByDate(userID, target, model.GroupAll, "Groceries")
	if err != nil {
		t.Fatalf("relabel converged: %v", err)
	}
	if changed != 0 {
		t.Fatalf("changed = %d, want 0", changed)
	}
}

func TestDeleteItemFromShoppingListSoftDeletes(t *testing.T) {
	svc, repo, _, userID := setupInventory(t)

	item := seedItem(t, svc, userID, model.GroceryItem{Name: "Pasta", Category: model.CategoryPantry, Status: model.StatusNeedToOrder})

	if err := svc.DeleteItem(userID, item.ID, true); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	stored, err := repo.FindByID(userID, item.ID)
	if err != nil {
		t.Fatalf("item gone after shopping-list delete: %v", err)
	}
	if stored.Status != model.StatusDontNeed {
		t.Fatalf("status = %q, want Don't Need", stored.Status)
	}

	if err := svc.DeleteItem(userID, item.ID, false); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if _, err := repo.FindByID(userID, item.ID); err == nil {
		t.Fatal("expected item to be removed")
	}
}

func TestItemsAreScopedPerUser(t *testing.T) {
	svc, _, _, userID := setupInventory(t)
	otherUser := uuid.New()

	item := seedItem(t, svc, userID, model.GroceryItem{Name: "Milk", Category: model.CategoryDairy, Status: model.StatusInStock})

	if _, err := svc.GetItem(otherUser, item.ID); err != ErrItemNotFound {
		t.Fatalf("err = %v, want ErrItemNotFound for foreign user", err)
	}
	items, err := svc.GetItems(otherUser)
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("foreign user sees %d items", len(items))
	}
}
