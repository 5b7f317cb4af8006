package handler

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/service/history"
)

// OrderHandler обслуживает историю покупок и просмотр отдельных заказов.
type OrderHandler struct {
	history *history.View
	logger  *log.Entry
}

// NewOrderHandler создаёт обработчик истории заказов.
func NewOrderHandler(view *history.View, logger *log.Entry) *OrderHandler {
	return &OrderHandler{
		history: view,
		logger:  logger.WithField("component", "http_order"),
	}
}

// History возвращает подтверждённые заказы пользователя, новые первыми.
// Количество ограничивается query-параметром limit.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	limit := c.QueryInt("limit")
	if limit < 0 {
		limit = 0
	}

	orders, err := h.history.ListConfirmedOrders(userID, limit)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("list history failed")
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"orders": toOrderPayloads(orders)})
}

// GetOrder возвращает заказ по идентификатору.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	if _, ok := userIDFromCtx(c); !ok {
		return unauthorized(c)
	}
	orderID := c.Params("orderID")

	order, err := h.history.GetOrder(orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Warn("get order failed")
		return writeError(c, err)
	}

	return c.JSON(toOrderPayload(order))
}

// DeleteOrder безвозвратно удаляет заказ — служебная операция очистки данных.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	if _, ok := userIDFromCtx(c); !ok {
		return unauthorized(c)
	}
	orderID := c.Params("orderID")

	if err := h.history.DeleteOrder(orderID); err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Warn("delete order failed")
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
