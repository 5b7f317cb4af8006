package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// statusFromError сопоставляет доменную ошибку HTTP-статусу и машинному коду.
func statusFromError(err error) (int, string) {
	switch {
	case domain.IsNotFound(err):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrOutOfStock):
		return fiber.StatusConflict, "out_of_stock"
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusUnprocessableEntity, "empty_cart"
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrCartAlreadyExists):
		return fiber.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrRoleInvalid),
		errors.Is(err, domain.ErrUserRequired):
		return fiber.StatusBadRequest, "invalid_argument"
	default:
		return fiber.StatusInternalServerError, "internal"
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFromError(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		// Внутренние детали не утекают наружу.
		message = "internal error"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func userIDFromCtx(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userID").(string)
	return userID, ok && userID != ""
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user identity"})
}
