package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/storefront/internal/transport/http/handler"
)

// Handlers собирает обработчики всех маршрутов витрины.
type Handlers struct {
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Catalog *handler.CatalogHandler
}

// NewUserIDMiddleware извлекает идентификатор пользователя из заголовка
// X-User-ID. Аутентификация выполняется внешним шлюзом, сервис доверяет
// заголовку и лишь требует его присутствия.
func NewUserIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing X-User-ID header"})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// RegisterRoutes навешивает маршруты витрины на приложение.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	api := app.Group("/api", NewUserIDMiddleware())

	cart := api.Group("/cart")
	cart.Get("", h.Cart.GetCart)
	cart.Post("/items/:itemID", h.Cart.AddItem)
	cart.Delete("/items/:itemID", h.Cart.RemoveItem)
	cart.Put("/items/:itemID/quantity", h.Cart.SetQuantity)
	cart.Delete("/clear", h.Cart.ClearCart)
	cart.Post("/confirm", h.Cart.Confirm)

	api.Get("/history", h.Order.History)
	api.Get("/orders/:orderID", h.Order.GetOrder)
	api.Delete("/orders/:orderID", h.Order.DeleteOrder)

	api.Get("/items", h.Catalog.List)
	api.Get("/items/:itemID", h.Catalog.Get)
}
