package handler

import (
	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/service"
	"grocery-tracker-ws/pkg/daykey"

	"github.com/gofiber/fiber/v2"
)

type ReconcileHandler struct {
	service service.ReconcileService
}

func NewReconcileHandler(s service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: s}
}

type extractRequest struct {
	PhotoDataURI string `json:"photo_data_uri"`
}

// Extract runs the AI extraction over an uploaded grocery-list photo and
// returns the item batch for the user to confirm. Nothing is written yet.
func (h *ReconcileHandler) Extract(c *fiber.Ctx) error {
	if _, err := getUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.PhotoDataURI == "" {
		return c.Status(400).JSON(fiber.Map{"error": "photo_data_uri is required"})
	}

	items, err := h.service.ExtractFromImage(c.Context(), req.PhotoDataURI)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "There was a problem processing your image. Please try again."})
	}
	if len(items) == 0 {
		return c.JSON(fiber.Map{
			"message": "No grocery items found in the image",
			"items":   []model.ExtractedItem{},
		})
	}
	return c.JSON(fiber.Map{"items": items})
}

type confirmRequest struct {
	Items        []model.ExtractedItem `json:"items"`
	PurchaseDate string                `json:"purchase_date"`
	Group        string                `json:"group"`
}

// Confirm applies a user-confirmed extraction batch to the inventory.
func (h *ReconcileHandler) Confirm(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	purchaseDate, err := daykey.Parse(req.PurchaseDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase_date, expected YYYY-MM-DD"})
	}
	if req.Group == "" {
		req.Group = model.DefaultGroupLabel
	}

	summary, err := h.service.ConfirmPurchase(userID, req.Items, purchaseDate, req.Group)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Items) == 0 {
		return c.JSON(fiber.Map{"message": "No items to reconcile", "summary": summary})
	}
	return c.JSON(fiber.Map{
		"message": "Purchase recorded",
		"summary": summary,
	})
}
