package brand

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mbognou/shop-backend/internal/product"
)

type Handler struct {
	service  ServiceInterface
	products product.ServiceInterface
}

func NewHandler(service ServiceInterface, products product.ServiceInterface) *Handler {
	return &Handler{service: service, products: products}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/brands", h.listBrands)
	app.Get("/api/brands/featured", h.listFeatured)
	app.Get("/api/brands/:id<[0-9]+>", h.getBrand)
	app.Get("/api/brands/:id<[0-9]+>/products", h.listBrandProducts)
}

func (h *Handler) RegisterAdminRoutes(app fiber.Router) {
	app.Post("/api/brands", h.createBrand)
	app.Put("/api/brands/:id<[0-9]+>", h.updateBrand)
	app.Delete("/api/brands/:id<[0-9]+>", h.deleteBrand)
}

func (h *Handler) listBrands(c *fiber.Ctx) error {
	brands, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": brands})
}

func (h *Handler) listFeatured(c *fiber.Ctx) error {
	brands, err := h.service.ListFeatured()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": brands})
}

func (h *Handler) getBrand(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	b, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Brand not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": b})
}

func (h *Handler) listBrandProducts(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	if _, err := h.service.GetByID(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Brand not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	page, err := h.products.List(product.ListOptions{
		BrandID: id,
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 15),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(page)
}

type brandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Logo        *string `json:"logo"`
	IsFeatured  *bool   `json:"is_featured"`
	Status      *string `json:"status"`
}

func (r brandRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Name == nil || *r.Name == "" {
		errs["name"] = "The name field is required."
	}
	if r.Status != nil && *r.Status != StatusActive && *r.Status != StatusInactive {
		errs["status"] = "The selected status is invalid."
	}
	return errs
}

func (h *Handler) createBrand(c *fiber.Ctx) error {
	payload := new(brandRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := payload.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "errors": errs})
	}

	b := Brand{Name: *payload.Name, Description: payload.Description, Logo: payload.Logo}
	if payload.IsFeatured != nil {
		b.IsFeatured = *payload.IsFeatured
	}
	if payload.Status != nil {
		b.Status = *payload.Status
	}

	created, err := h.service.Create(b)
	if err != nil {
		if err == ErrNameExists {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "errors": map[string]string{"name": "The name has already been taken."}})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Brand created successfully", "data": created})
}

func (h *Handler) updateBrand(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	existing, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Brand not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	payload := new(brandRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Status != nil && *payload.Status != StatusActive && *payload.Status != StatusInactive {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "errors": map[string]string{"status": "The selected status is invalid."}})
	}
	if payload.Name != nil {
		existing.Name = *payload.Name
	}
	if payload.Description != nil {
		existing.Description = payload.Description
	}
	if payload.Logo != nil {
		existing.Logo = payload.Logo
	}
	if payload.IsFeatured != nil {
		existing.IsFeatured = *payload.IsFeatured
	}
	if payload.Status != nil {
		existing.Status = *payload.Status
	}

	updated, err := h.service.Update(id, existing)
	if err != nil {
		if err == ErrNameExists {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "errors": map[string]string{"name": "The name has already been taken."}})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Brand updated successfully", "data": updated})
}

func (h *Handler) deleteBrand(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Brand not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Brand deleted successfully"})
}
