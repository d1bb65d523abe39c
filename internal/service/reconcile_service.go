package service

import (
	"context"
	"sync"
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/repository"
	"grocery-tracker-ws/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Extractor is the external AI service that turns a photographed grocery
// list into structured items. Consumed as a black box.
type Extractor interface {
	Extract(ctx context.Context, photoDataURI string) ([]model.ExtractedItem, error)
}

type ReconcileService interface {
	ExtractFromImage(ctx context.Context, photoDataURI string) ([]model.ExtractedItem, error)
	ConfirmPurchase(userID uuid.UUID, extracted []model.ExtractedItem, purchaseDate time.Time, group string) (ReconcileSummary, error)
}

type reconcileService struct {
	itemRepo  repository.ItemRepository
	db        *gorm.DB
	wsHub     *ws.Hub
	extractor Extractor
}

func NewReconcileService(itemRepo repository.ItemRepository, db *gorm.DB, hub *ws.Hub, extractor Extractor) ReconcileService {
	return &reconcileService{
		itemRepo:  itemRepo,
		db:        db,
		wsHub:     hub,
		extractor: extractor,
	}
}

func (s *reconcileService) ExtractFromImage(ctx context.Context, photoDataURI string) ([]model.ExtractedItem, error) {
	return s.extractor.Extract(ctx, photoDataURI)
}

// ConfirmPurchase merges one extracted batch into the user's inventory.
// The batch plan is built against a single snapshot; the resulting writes
// are disjoint per item id, so they are dispatched concurrently and joined
// before returning. Each item's write is atomic; a failed write does not
// roll back its siblings and nothing is retried here.
func (s *reconcileService) ConfirmPurchase(userID uuid.UUID, extracted []model.ExtractedItem, purchaseDate time.Time, group string) (ReconcileSummary, error) {
	if len(extracted) == 0 {
		// Empty but successful batch, not an error.
		return ReconcileSummary{}, nil
	}

	inventory, err := s.itemRepo.FindAll(userID)
	if err != nil {
		return ReconcileSummary{}, err
	}

	updates, creates, summary, err := BuildReconciliation(extracted, inventory, purchaseDate, group)
	if err != nil {
		return ReconcileSummary{}, err
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		writeErr error
	)
	fail := func(err error) {
		if err != nil {
			errOnce.Do(func() { writeErr = err })
		}
	}

	for i := range updates {
		wg.Add(1)
		go func(u ItemUpdate) {
			defer wg.Done()
			fail(s.db.Transaction(func(tx *gorm.DB) error {
				if err := s.itemRepo.Update(tx, &u.Item); err != nil {
					return err
				}
				return s.itemRepo.AppendOrder(tx, &u.Order)
			}))
		}(updates[i])
	}
	for i := range creates {
		wg.Add(1)
		go func(item model.GroceryItem) {
			defer wg.Done()
			item.UserID = userID
			fail(s.itemRepo.Create(&item))
		}(creates[i])
	}
	wg.Wait()

	if writeErr != nil {
		return summary, writeErr
	}

	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":    "inventory_update",
		"action":  "purchase_reconciled",
		"summary": summary,
	})
	return summary, nil
}
