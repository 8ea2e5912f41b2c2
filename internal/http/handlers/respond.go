package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sweetshop/internal/domain"
	applog "sweetshop/internal/log"
	"sweetshop/internal/services"
)

// fail maps service errors onto HTTP statuses and a JSON error envelope.
// Unknown errors become a generic 500 so internals never leak.
func fail(c *fiber.Ctx, action string, err error) error {
	var (
		nf    *domain.NotFoundError
		stock *domain.InsufficientStockError
		state *domain.InvalidStateError
		trans *domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c, action+".denied", nil)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized"})
	case errors.As(err, &stock), errors.As(err, &state), errors.As(err, &trans):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBadCreds), errors.Is(err, services.ErrBadToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTaken),
		errors.Is(err, services.ErrNoItems),
		errors.Is(err, services.ErrBadQuantity),
		errors.Is(err, services.ErrBadStatus),
		errors.Is(err, services.ErrCancelViaUpdate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
