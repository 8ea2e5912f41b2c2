package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sweetshop/internal/log"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
	"sweetshop/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Email != "" {
		if _, ok := validate.Email(req.Email); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "email"})
			return badRequest(c, "invalid email")
		}
	}
	if _, ok := validate.Phone(req.PhoneNumber); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone_number"})
		return badRequest(c, "invalid phone number")
	}

	o, err := h.Orders.Create(u, req)
	if err != nil {
		return fail(c, "orders.create", err)
	}
	applog.Audit(c, "orders.create", map[string]any{"order_id": o.ID, "total": o.TotalAmount})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /api/orders
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	orders, err := h.Orders.List(currentUser(c), "mine")
	if err != nil {
		return fail(c, "orders.list", err)
	}
	return c.JSON(orders)
}

// GET /api/orders/admin (admin)
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	orders, err := h.Orders.List(currentUser(c), "all")
	if err != nil {
		return fail(c, "orders.list.all", err)
	}
	return c.JSON(orders)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	o, err := h.Orders.Get(currentUser(c), id)
	if err != nil {
		return fail(c, "orders.get", err)
	}
	return c.JSON(o)
}

// PUT /api/orders/:id (admin)
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	var patch repos.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if patch.PhoneNumber != nil {
		if _, ok := validate.Phone(*patch.PhoneNumber); !ok {
			return badRequest(c, "invalid phone number")
		}
	}
	o, err := h.Orders.Update(currentUser(c), id, patch)
	if err != nil {
		return fail(c, "orders.update", err)
	}
	applog.Audit(c, "orders.update", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(o)
}

// DELETE /api/orders/:id
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Orders.Cancel(currentUser(c), id); err != nil {
		return fail(c, "orders.cancel", err)
	}
	applog.Audit(c, "orders.cancel", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Order cancelled successfully"})
}
