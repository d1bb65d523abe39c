package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/repository"
	"grocery-tracker-ws/internal/ws"
	"grocery-tracker-ws/pkg/daykey"
	"grocery-tracker-ws/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrGiftNotFound  = errors.New("gift not found")
)

// EventCalendar is the calendar index for the gift tracker: the day keys of
// every event's next occurrence and of every gift purchase.
type EventCalendar struct {
	EventDays    []string `json:"event_days"`
	PurchaseDays []string `json:"purchase_days"`
}

type EventService interface {
	GetEvents(userID uuid.UUID) ([]model.ShoppingEvent, error)
	UpcomingEvents(userID uuid.UUID, now time.Time) (upcoming, past []model.ShoppingEvent, err error)
	SaveEvent(userID uuid.UUID, event *model.ShoppingEvent) error
	DeleteEvent(userID, id uuid.UUID) error

	GetGifts(userID uuid.UUID) ([]model.GiftItem, error)
	GiftsForEvent(userID, eventID uuid.UUID) ([]model.GiftItem, error)
	SaveGift(userID uuid.UUID, gift *model.GiftItem) error
	DeleteGift(userID, id uuid.UUID) error

	Calendar(userID uuid.UUID, now time.Time) (*EventCalendar, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	giftRepo  repository.GiftRepository
	wsHub     *ws.Hub
}

func NewEventService(eventRepo repository.EventRepository, giftRepo repository.GiftRepository, hub *ws.Hub) EventService {
	return &eventService{
		eventRepo: eventRepo,
		giftRepo:  giftRepo,
		wsHub:     hub,
	}
}

func (s *eventService) GetEvents(userID uuid.UUID) ([]model.ShoppingEvent, error) {
	return s.eventRepo.FindAll(userID)
}

// UpcomingEvents splits the user's events around now. Recurring events are
// compared by next occurrence, so a birthday is "upcoming" even when its
// stored date is years old; only non-recurring events age into the past.
func (s *eventService) UpcomingEvents(userID uuid.UUID, now time.Time) ([]model.ShoppingEvent, []model.ShoppingEvent, error) {
	events, err := s.eventRepo.FindAll(userID)
	if err != nil {
		return nil, nil, err
	}

	var upcoming, past []model.ShoppingEvent
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, event := range events {
		if event.NextOccurrence(now).Before(day) {
			past = append(past, event)
		} else {
			upcoming = append(upcoming, event)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextOccurrence(now).Before(upcoming[j].NextOccurrence(now))
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].Date.After(past[j].Date)
	})
	return upcoming, past, nil
}

func (s *eventService) SaveEvent(userID uuid.UUID, event *model.ShoppingEvent) error {
	if errs := validator.ValidateStruct(event); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	event.UserID = userID
	var err error
	if event.ID == uuid.Nil {
		err = s.eventRepo.Create(event)
	} else {
		if _, findErr := s.eventRepo.FindByID(userID, event.ID); findErr != nil {
			return ErrEventNotFound
		}
		err = s.eventRepo.Update(event)
	}
	if err != nil {
		return err
	}

	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":   "tracker_update",
		"action": "event_saved",
		"event":  event,
	})
	return nil
}

func (s *eventService) DeleteEvent(userID, id uuid.UUID) error {
	if err := s.eventRepo.Delete(userID, id); err != nil {
		return ErrEventNotFound
	}
	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":     "tracker_update",
		"action":   "event_deleted",
		"event_id": id,
	})
	return nil
}

func (s *eventService) GetGifts(userID uuid.UUID) ([]model.GiftItem, error) {
	return s.giftRepo.FindAll(userID)
}

func (s *eventService) GiftsForEvent(userID, eventID uuid.UUID) ([]model.GiftItem, error) {
	return s.giftRepo.FindByEvent(userID, eventID)
}

func (s *eventService) SaveGift(userID uuid.UUID, gift *model.GiftItem) error {
	if errs := validator.ValidateStruct(gift); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if gift.ForEventID != nil {
		if _, err := s.eventRepo.FindByID(userID, *gift.ForEventID); err != nil {
			return ErrEventNotFound
		}
	}

	gift.UserID = userID
	var err error
	if gift.ID == uuid.Nil {
		err = s.giftRepo.Create(gift)
	} else {
		if _, findErr := s.giftRepo.FindByID(userID, gift.ID); findErr != nil {
			return ErrGiftNotFound
		}
		err = s.giftRepo.Update(gift)
	}
	if err != nil {
		return err
	}

	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":   "tracker_update",
		"action": "gift_saved",
		"gift":   gift,
	})
	return nil
}

func (s *eventService) DeleteGift(userID, id uuid.UUID) error {
	if err := s.giftRepo.Delete(userID, id); err != nil {
		return ErrGiftNotFound
	}
	s.wsHub.Notify(userID.String(), map[string]interface{}{
		"type":    "tracker_update",
		"action":  "gift_deleted",
		"gift_id": id,
	})
	return nil
}

// Calendar returns the day keys highlighted in the gift calendar view.
func (s *eventService) Calendar(userID uuid.UUID, now time.Time) (*EventCalendar, error) {
	events, err := s.eventRepo.FindAll(userID)
	if err != nil {
		return nil, err
	}
	gifts, err := s.giftRepo.FindAll(userID)
	if err != nil {
		return nil, err
	}

	eventDays := make(map[string]bool)
	for i := range events {
		eventDays[daykey.FromTime(events[i].NextOccurrence(now))] = true
	}
	purchaseDays := make(map[string]bool)
	for i := range gifts {
		purchaseDays[daykey.FromTime(gifts[i].PurchaseDate)] = true
	}

	cal := &EventCalendar{
		EventDays:    make([]string, 0, len(eventDays)),
		PurchaseDays: make([]string, 0, len(purchaseDays)),
	}
	for key := range eventDays {
		cal.EventDays = append(cal.EventDays, key)
	}
	for key := range purchaseDays {
		cal.PurchaseDays = append(cal.PurchaseDays, key)
	}
	sort.Strings(cal.EventDays)
	sort.Strings(cal.PurchaseDays)
	return cal, nil
}
