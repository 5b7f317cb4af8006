package handler

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

// CartHandler обслуживает маршруты корзины и подтверждения покупки.
type CartHandler struct {
	carts    *cart.Manager
	checkout *checkout.Coordinator
	logger   *log.Entry
}

// NewCartHandler создаёт обработчик корзины.
func NewCartHandler(carts *cart.Manager, checkout *checkout.Coordinator, logger *log.Entry) *CartHandler {
	return &CartHandler{
		carts:    carts,
		checkout: checkout,
		logger:   logger.WithField("component", "http_cart"),
	}
}

// GetCart возвращает активную корзину пользователя, создавая её при необходимости.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	order, err := h.carts.GetOrCreateCart(userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("get cart failed")
		return writeError(c, err)
	}

	return c.JSON(toOrderPayload(order))
}

// AddItem добавляет товар в корзину с количеством 1.
// Повторное добавление того же товара не меняет корзину.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	itemID := c.Params("itemID")

	order, err := h.carts.AddItem(userID, itemID)
	if err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"item_id": itemID,
		}).Warn("add item failed")
		return writeError(c, err)
	}

	return c.JSON(toOrderPayload(order))
}

// RemoveItem убирает товар из корзины. Отсутствие товара — не ошибка.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	itemID := c.Params("itemID")

	order, err := h.carts.RemoveItem(userID, itemID)
	if err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"item_id": itemID,
		}).Warn("remove item failed")
		return writeError(c, err)
	}

	return c.JSON(toOrderPayload(order))
}

// SetQuantity выставляет количество позиции из query-параметра quantity.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	itemID := c.Params("itemID")

	qty := c.QueryInt("quantity")
	if qty <= 0 || qty > int(int32Max) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "quantity must be a positive integer",
			"code":  "invalid_argument",
		})
	}

	order, err := h.carts.SetQuantity(userID, itemID, int32(qty))
	if err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"user_id":  userID,
			"item_id":  itemID,
			"quantity": qty,
		}).Warn("set quantity failed")
		return writeError(c, err)
	}

	return c.JSON(toOrderPayload(order))
}

// ClearCart опустошает корзину пользователя.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.carts.ClearCart(userID); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("clear cart failed")
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm подтверждает покупку: списывает остатки и закрывает корзину.
func (h *CartHandler) Confirm(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	order, err := h.checkout.ConfirmPurchase(userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("confirm purchase failed")
		return writeError(c, err)
	}

	return c.JSON(toOrderPayload(order))
}

const int32Max = 1<<31 - 1
