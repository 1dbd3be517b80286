package order

import (
	"errors"
	"fmt"
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
	app.Get("/api/orders", h.listOrders)
	app.Post("/api/orders", h.createOrder)
	app.Get("/api/orders/:id<[0-9]+>", h.getOrder)
	app.Delete("/api/orders/:id<[0-9]+>", h.cancelOrder)
}

func (h *Handler) RegisterAdminRoutes(app fiber.Router) {
	app.Get("/api/admin/orders", h.adminListOrders)
	app.Put("/api/admin/orders/:id<[0-9]+>", h.adminUpdateOrder)
}

func (r CheckoutRequest) validate() map[string]string {
	errs := map[string]string{}
	if len(r.Items) == 0 {
		errs["items"] = "The items field is required."
	}
	for i, line := range r.Items {
		if line.ProductID <= 0 {
			errs[fmt.Sprintf("items.%d.product_id", i)] = "The product id field is required."
		}
		if line.Quantity < 1 {
			errs[fmt.Sprintf("items.%d.quantity", i)] = "The quantity must be at least 1."
		}
	}
	if r.ShippingAddress == "" {
		errs["shipping_address"] = "The shipping address field is required."
	}
	if !PaymentMethods[r.PaymentMethod] {
		errs["payment_method"] = "The selected payment method is invalid."
	}
	return errs
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(CheckoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := payload.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": errs})
	}

	created, err := h.service.Checkout(userID, *payload)
	if err != nil {
		var stockErr *product.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message":   stockErr.Error(),
				"available": stockErr.Available,
			})
		}
		var notFoundErr *ProductNotFoundError
		if errors.As(err, &notFoundErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  map[string]string{"items": "The selected product does not exist."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create order", "error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orders, err := h.service.List(userID, user.IsAdminFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve orders", "error": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	ord, err := h.service.Get(userID, user.IsAdminFromCtx(c), id)
	if err != nil {
		switch {
		case err == ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		case err == ErrUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(ord)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Cancel(userID, user.IsAdminFromCtx(c), id); err != nil {
		var stateErr *InvalidStateError
		switch {
		case err == ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		case err == ErrUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		case errors.As(err, &stateErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Cannot cancel this order. Status: " + string(stateErr.Status)})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "Order cancelled successfully"})
}

func (h *Handler) adminListOrders(c *fiber.Ctx) error {
	orders, err := h.service.List(0, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve orders", "error": err.Error()})
	}
	return c.JSON(orders)
}

type adminOrderUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) adminUpdateOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(adminOrderUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ord, err := h.service.UpdateStatus(id, Status(payload.Status))
	if err != nil {
		switch err {
		case ErrInvalidStatus:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": map[string]string{"status": "The selected status is invalid."}})
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(ord)
}
