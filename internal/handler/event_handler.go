package handler

import (
	"time"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(s service.EventService) *EventHandler {
	return &EventHandler{service: s}
}

func (h *EventHandler) GetEvents(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	events, err := h.service.GetEvents(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(events)
}

func (h *EventHandler) GetUpcoming(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	upcoming, past, err := h.service.UpcomingEvents(userID, time.Now())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{
		"upcoming": upcoming,
		"past":     past,
	})
}

func (h *EventHandler) SaveEvent(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var event model.ShoppingEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if id := c.Params("id"); id != "" {
		eventID, err := uuid.Parse(id)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
		}
		event.ID = eventID
	}

	if err := h.service.SaveEvent(userID, &event); err != nil {
		status := 400
		if err == service.ErrEventNotFound {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	if c.Method() == fiber.MethodPost {
		return c.Status(201).JSON(fiber.Map{"message": "Event saved", "data": event})
	}
	return c.JSON(fiber.Map{"message": "Event saved", "data": event})
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	if err := h.service.DeleteEvent(userID, eventID); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}

func (h *EventHandler) GetGifts(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if rawEventID := c.Query("event_id"); rawEventID != "" {
		eventID, err := uuid.Parse(rawEventID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
		}
		gifts, err := h.service.GiftsForEvent(userID, eventID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(gifts)
	}

	gifts, err := h.service.GetGifts(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(gifts)
}

func (h *EventHandler) SaveGift(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var gift model.GiftItem
	if err := c.BodyParser(&gift); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if id := c.Params("id"); id != "" {
		giftID, err := uuid.Parse(id)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid gift ID"})
		}
		gift.ID = giftID
	}

	if err := h.service.SaveGift(userID, &gift); err != nil {
		status := 400
		if err == service.ErrGiftNotFound || err == service.ErrEventNotFound {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	if c.Method() == fiber.MethodPost {
		return c.Status(201).JSON(fiber.Map{"message": "Gift saved", "data": gift})
	}
	return c.JSON(fiber.Map{"message": "Gift saved", "data": gift})
}

func (h *EventHandler) DeleteGift(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	giftID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid gift ID"})
	}

	if err := h.service.DeleteGift(userID, giftID); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Gift deleted"})
}

func (h *EventHandler) GetCalendar(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	cal, err := h.service.Calendar(userID, time.Now())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(cal)
}
