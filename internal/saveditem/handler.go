package saveditem

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mbognou/shop-backend/internal/product"
	"github.com/mbognou/shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/saved-items", h.listSavedItems)
	app.Post("/api/saved-items", h.saveItem)
	app.Delete("/api/saved-items/:product_id<[0-9]+>", h.removeSavedItem)
}

func (h *Handler) listSavedItems(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	products, err := h.service.ListProducts(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve saved items", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": products})
}

type saveItemRequest struct {
	ProductID int `json:"product_id"`
}

func (h *Handler) saveItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(saveItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": map[string]string{"product_id": "The product id field is required."}})
	}

	if err := h.service.Save(userID, payload.ProductID); err != nil {
		if err == product.ErrNotFound {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": map[string]string{"product_id": "The selected product id is invalid."}})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save item", "error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item saved successfully"})
}

func (h *Handler) removeSavedItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	productID, err := strconv.Atoi(c.Params("product_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	if err := h.service.Remove(userID, productID); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Item not found in favorites"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to remove item", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Item removed from favorites"})
}
