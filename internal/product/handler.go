package product

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/products", h.listProducts)
	app.Get("/api/products/featured", h.listFeatured)
	app.Get("/api/products/:id<[0-9]+>", h.getProduct)
}

func (h *Handler) RegisterAdminRoutes(app fiber.Router) {
	app.Post("/api/products", h.createProduct)
	app.Put("/api/products/:id<[0-9]+>", h.updateProduct)
	app.Delete("/api/products/:id<[0-9]+>", h.deleteProduct)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	opts := ListOptions{
		Search:   c.Query("search"),
		Featured: c.Query("is_new") != "",
		Upcoming: c.Query("is_upcoming") != "",
		SortBy:   c.Query("sort_by", "created_at"),
		SortDir:  c.Query("sort_direction", "desc"),
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("per_page", 15),
	}
	page, err := h.service.List(opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve products", "error": err.Error()})
	}
	return c.JSON(page)
}

func (h *Handler) listFeatured(c *fiber.Ctx) error {
	products, err := h.service.ListFeatured()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve featured products", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	p, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	CategoryID  *int     `json:"category_id"`
	BrandID     *int     `json:"brand_id"`
	Image       *string  `json:"image"`
	Featured    *bool    `json:"featured"`
	ComingSoon  *bool    `json:"coming_soon"`
}

func (r productRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Name == nil || *r.Name == "" {
		errs["name"] = "The name field is required."
	}
	if r.Description == nil || *r.Description == "" {
		errs["description"] = "The description field is required."
	}
	if r.Price == nil {
		errs["price"] = "The price field is required."
	} else if *r.Price < 0 {
		errs["price"] = "The price must be at least 0."
	}
	if r.Stock == nil {
		errs["stock"] = "The stock field is required."
	} else if *r.Stock < 0 {
		errs["stock"] = "The stock must be at least 0."
	}
	if r.CategoryID == nil {
		errs["category_id"] = "The category id field is required."
	}
	return errs
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := payload.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": errs})
	}

	p := Product{
		Name:        *payload.Name,
		Description: *payload.Description,
		Price:       *payload.Price,
		Stock:       *payload.Stock,
		CategoryID:  *payload.CategoryID,
		BrandID:     payload.BrandID,
		Image:       payload.Image,
	}
	if payload.Featured != nil {
		p.Featured = *payload.Featured
	}
	if payload.ComingSoon != nil {
		p.ComingSoon = *payload.ComingSoon
	}

	created, err := h.service.Create(p)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create product", "error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	existing, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// partial update: only fields present in the payload are applied
	if payload.Name != nil {
		existing.Name = *payload.Name
	}
	if payload.Description != nil {
		existing.Description = *payload.Description
	}
	if payload.Price != nil {
		if *payload.Price < 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": map[string]string{"price": "The price must be at least 0."}})
		}
		existing.Price = *payload.Price
	}
	if payload.Stock != nil {
		if *payload.Stock < 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": map[string]string{"stock": "The stock must be at least 0."}})
		}
		existing.Stock = *payload.Stock
	}
	if payload.CategoryID != nil {
		existing.CategoryID = *payload.CategoryID
	}
	if payload.BrandID != nil {
		existing.BrandID = payload.BrandID
	}
	if payload.Image != nil {
		existing.Image = payload.Image
	}
	if payload.Featured != nil {
		existing.Featured = *payload.Featured
	}
	if payload.ComingSoon != nil {
		existing.ComingSoon = *payload.ComingSoon
	}

	updated, err := h.service.Update(id, existing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update product", "error": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
