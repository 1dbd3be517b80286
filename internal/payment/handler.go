package payment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mbognou/shop-backend/internal/order"
	"github.com/mbognou/shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/payments/process", h.processPayment)
	app.Get("/api/payments/history", h.getHistory)
	app.Get("/api/payments/user/:user_id<[0-9]+>", h.getUserHistory)

	app.Get("/api/payment-methods", h.listMethods)
	app.Post("/api/payment-methods", h.addMethod)
	app.Delete("/api/payment-methods/:id<[0-9]+>", h.removeMethod)
	app.Put("/api/payment-methods/:id<[0-9]+>/default", h.setDefaultMethod)
}

func (h *Handler) RegisterAdminRoutes(app fiber.Router) {
	app.Get("/api/admin/payments", h.adminListPayments)
}

func (r ProcessRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.OrderID <= 0 {
		errs["order_id"] = "The order id field is required."
	}
	if !order.PaymentMethods[r.PaymentMethod] {
		errs["payment_method"] = "The selected payment method is invalid."
		return errs
	}
	switch r.PaymentMethod {
	case "mtn", "orange":
		if r.PhoneNumber == "" {
			errs["phone_number"] = "The phone number field is required."
		}
	case "paypal", "stripe":
		if r.CardNumber == "" {
			errs["card_number"] = "The card number field is required."
		}
		if r.ExpiryMonth == "" {
			errs["expiry_month"] = "The expiry month field is required."
		}
		if r.ExpiryYear == "" {
			errs["expiry_year"] = "The expiry year field is required."
		}
		if r.CVC == "" {
			errs["cvc"] = "The cvc field is required."
		}
	}
	return errs
}

func (h *Handler) processPayment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(ProcessRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := payload.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": errs})
	}

	pay, ord, err := h.service.Process(userID, user.IsAdminFromCtx(c), *payload)
	if err != nil {
		var stateErr *order.InvalidStateError
		var gwErr *GatewayError
		switch {
		case err == order.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		case err == ErrUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		case errors.As(err, &stateErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "This order cannot be paid. Status: " + string(stateErr.Status)})
		case err == ErrUnsupportedMethod:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Unsupported payment method"})
		case errors.As(err, &gwErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": gwErr.Message})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Payment processing failed", "error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Payment processed successfully",
		"payment": pay,
		"order":   ord,
	})
}

func (h *Handler) getHistory(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payments, err := h.service.History(userID, user.IsAdminFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve payments", "error": err.Error()})
	}
	return c.JSON(payments)
}

func (h *Handler) getUserHistory(c *fiber.Ctx) error {
	requesterID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	targetID, err := strconv.Atoi(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}

	payments, err := h.service.UserHistory(requesterID, user.IsAdminFromCtx(c), targetID)
	if err != nil {
		switch err {
		case ErrUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized access"})
		case user.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(payments)
}

func (h *Handler) listMethods(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	methods, err := h.service.ListMethods(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve payment methods", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": methods})
}

type addMethodRequest struct {
	CardNumber string `json:"card_number"`
	IsDefault  bool   `json:"is_default"`
}

func (h *Handler) addMethod(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(addMethodRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.CardNumber == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": map[string]string{"card_number": "The card number field is required."}})
	}

	created, err := h.service.AddMethod(userID, payload.CardNumber, payload.IsDefault)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save payment method", "error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Payment method saved successfully", "data": created})
}

func (h *Handler) removeMethod(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	if err := h.service.RemoveMethod(userID, id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Payment method not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Payment method removed successfully"})
}

func (h *Handler) setDefaultMethod(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	if err := h.service.SetDefault(userID, id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Payment method not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Default payment method updated successfully"})
}

func (h *Handler) adminListPayments(c *fiber.Ctx) error {
	payments, err := h.service.History(0, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve payments", "error": err.Error()})
	}
	return c.JSON(payments)
}
