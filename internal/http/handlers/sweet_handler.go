package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sweetshop/internal/domain"
	applog "sweetshop/internal/log"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
	"sweetshop/internal/validate"
)

type SweetHandler struct {
	Catalog *services.CatalogService
}

// GET /api/sweets
func (h *SweetHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	sweets, err := h.Catalog.List(limit, offset)
	if err != nil {
		return fail(c, "sweets.list", err)
	}
	return c.JSON(sweets)
}

// GET /api/sweets/search
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	name := strings.ToLower(strings.TrimSpace(c.Query("name")))
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	var minPrice, maxPrice *float64
	if v := c.Query("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return badRequest(c, "invalid min_price")
		}
		minPrice = &f
	}
	if v := c.Query("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return badRequest(c, "invalid max_price")
		}
		maxPrice = &f
	}

	sweets, err := h.Catalog.Search(name, category, minPrice, maxPrice)
	if err != nil {
		return fail(c, "sweets.search", err)
	}
	return c.JSON(sweets)
}

// GET /api/sweets/:id
func (h *SweetHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	sw, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "sweets.get", err)
	}
	return c.JSON(sw)
}

type sweetCreateRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// POST /api/sweets (admin)
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var req sweetCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return badRequest(c, "name and category are required")
	}
	if req.Price < 0 || req.Quantity < 0 {
		return badRequest(c, "price and quantity must be non-negative")
	}

	sw := domain.Sweet{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.Catalog.Create(&sw); err != nil {
		return fail(c, "sweets.create", err)
	}
	applog.Audit(c, "sweets.create", map[string]any{"sweet_id": sw.ID})
	full, err := h.Catalog.Get(sw.ID)
	if err != nil {
		return fail(c, "sweets.create", err)
	}
	return c.Status(fiber.StatusCreated).JSON(full)
}

// PUT /api/sweets/:id (admin)
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	var patch repos.SweetPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return badRequest(c, "price must be non-negative")
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return badRequest(c, "quantity must be non-negative")
	}
	sw, err := h.Catalog.Update(id, patch)
	if err != nil {
		return fail(c, "sweets.update", err)
	}
	applog.Audit(c, "sweets.update", map[string]any{"sweet_id": sw.ID})
	return c.JSON(sw)
}

// DELETE /api/sweets/:id (admin)
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return fail(c, "sweets.delete", err)
	}
	applog.Audit(c, "sweets.delete", map[string]any{"sweet_id": id})
	return c.JSON(fiber.Map{"message": "Sweet deleted successfully"})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// POST /api/sweets/:id/purchase
func (h *SweetHandler) Purchase(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	sw, err := h.Catalog.Purchase(id, req.Quantity)
	if err != nil {
		return fail(c, "sweets.purchase", err)
	}
	applog.Audit(c, "sweets.purchase", map[string]any{"sweet_id": sw.ID, "quantity": req.Quantity})
	return c.JSON(sw)
}

// POST /api/sweets/:id/restock (admin)
func (h *SweetHandler) Restock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	sw, err := h.Catalog.Restock(id, req.Quantity)
	if err != nil {
		return fail(c, "sweets.restock", err)
	}
	applog.Audit(c, "sweets.restock", map[string]any{"sweet_id": sw.ID, "quantity": req.Quantity})
	return c.JSON(sw)
}
