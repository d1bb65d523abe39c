package service

import (
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/repository"

	"github.com/google/uuid"
)

// ReportService derives read-only spend and calendar views from the current
// inventory snapshot. Nothing is cached: every call recomputes from the
// store so the figures can never go stale behind a mutation.
type ReportService interface {
	SpendByCategory(userID uuid.UUID, month time.Time) (map[model.Category]float64, error)
	SpendByGroup(userID uuid.UUID, month time.Time) (map[string]float64, error)
	PurchaseDates(userID uuid.UUID) ([]string, map[string][]model.Order, error)
}

type reportService struct {
	itemRepo repository.ItemRepository
}

func NewReportService(itemRepo repository.ItemRepository) ReportService {
	return &reportService{itemRepo: itemRepo}
}

func (s *reportService) SpendByCategory(userID uuid.UUID, month time.Time) (map[model.Category]float64, error) {
	items, err := s.itemRepo.FindAll(userID)
	if err != nil {
		return nil, err
	}
	return MonthlySpendByCategory(items, month), nil
}

func (s *reportService) SpendByGroup(userID uuid.UUID, month time.Time) (map[string]float64, error) {
	items, err := s.itemRepo.FindAll(userID)
	if err != nil {
		return nil, err
	}
	return MonthlySpendByGroup(items, month), nil
}

func (s *reportService) PurchaseDates(userID uuid.UUID) ([]string, map[string][]model.Order, error) {
	items, err := s.itemRepo.FindAll(userID)
	if err != nil {
		return nil, nil, err
	}
	days, byDay := PurchaseDatesIndex(items)
	return days, byDay, nil
}
