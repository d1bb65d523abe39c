package handler

import (
	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/service"
	"grocery-tracker-ws/pkg/daykey"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ItemHandler struct {
	service service.InventoryService
}

func NewItemHandler(s service.InventoryService) *ItemHandler {
	return &ItemHandler{service: s}
}

// Helper to read the authenticated user's ID from context (set by RequireAuth)
func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("user_id").(string)
	return uuid.Parse(raw)
}

func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	items, err := h.service.GetItems(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.service.GetItem(userID, itemID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
	}
	return c.JSON(item)
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var item model.GroceryItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateItem(userID, &item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var item model.GroceryItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateItem(userID, itemID, &item)
	if err != nil {
		status := 400
		if err == service.ErrItemNotFound {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": updated})
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	// from_shopping_list=true downgrades the delete to a Don't Need move
	fromShoppingList := c.QueryBool("from_shopping_list", false)

	if err := h.service.DeleteItem(userID, itemID, fromShoppingList); err != nil {
		status := 400
		if err == service.ErrItemNotFound {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	if fromShoppingList {
		return c.JSON(fiber.Map{"message": "Item moved to Don't Need"})
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

type statusRequest struct {
	Status   model.StockStatus `json:"status"`
	Quantity *int              `json:"quantity,omitempty"`
}

func (h *ItemHandler) ChangeStatus(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.ChangeStatus(userID, itemID, req.Status, req.Quantity)
	if err != nil {
		status := 400
		if err == service.ErrItemNotFound {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": updated})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *ItemHandler) ChangeQuantity(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.ChangeQuantity(userID, itemID, req.Quantity)
	if err != nil {
		status := 400
		if err == service.ErrItemNotFound {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Quantity updated", "data": updated})
}

func (h *ItemHandler) DeletePurchases(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	date, err := daykey.Parse(c.Query("date"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	group := c.Query("group", model.GroupAll)

	removed, err := h.service.DeletePurchasesByDate(userID, date, group)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if removed == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "No purchase history found for the selected date and group",
			"removed": 0,
		})
	}
	return c.JSON(fiber.Map{"message": "Entries deleted", "removed": removed})
}

type relabelRequest struct {
	Date         string `json:"date"`
	CurrentGroup string `json:"current_group"`
	NewGroup     string `json:"new_group"`
}

func (h *ItemHandler) RelabelPurchases(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req relabelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	date, err := daykey.Parse(req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	if req.CurrentGroup == "" {
		req.CurrentGroup = model.GroupAll
	}

	changed, err := h.service.RelabelPurchasesByDate(userID, date, req.CurrentGroup, req.NewGroup)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if changed == 0 {
		return c.JSON(fiber.Map{
			"message": "No entries needed to be updated for the selected criteria",
			"updated": 0,
		})
	}
	return c.JSON(fiber.Map{"message": "Entries updated", "updated": changed})
}
