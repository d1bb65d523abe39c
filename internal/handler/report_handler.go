package handler

import (
	"time"

	"grocery-tracker-ws/internal/service"
	"grocery-tracker-ws/pkg/daykey"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// month query param is YYYY-MM; defaults to the current month.
func monthParam(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("month")
	if raw == "" {
		return time.Now(), nil
	}
	return daykey.ParseMonth(raw)
}

func (h *ReportHandler) SpendByCategory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	month, err := monthParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid month, expected YYYY-MM"})
	}

	spend, err := h.service.SpendByCategory(userID, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{
		"month": daykey.MonthFromTime(month),
		"spend": spend,
	})
}

func (h *ReportHandler) SpendByGroup(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	month, err := monthParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid month, expected YYYY-MM"})
	}

	spend, err := h.service.SpendByGroup(userID, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{
		"month": daykey.MonthFromTime(month),
		"spend": spend,
	})
}

func (h *ReportHandler) PurchaseDates(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	days, byDay, err := h.service.PurchaseDates(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{
		"days":   days,
		"by_day": byDay,
	})
}
