package handler

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// CatalogHandler даёт read-only доступ к каталогу товаров.
// Редактирование каталога принадлежит внешней админке.
type CatalogHandler struct {
	items  domain.ItemRepository
	logger *log.Entry
}

// NewCatalogHandler создаёт обработчик каталога.
func NewCatalogHandler(items domain.ItemRepository, logger *log.Entry) *CatalogHandler {
	return &CatalogHandler{
		items:  items,
		logger: logger.WithField("component", "http_catalog"),
	}
}

// List возвращает каталог, отсортированный по имени.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	items, err := h.items.List()
	if err != nil {
		h.logger.WithError(err).Warn("list items failed")
		return writeError(c, err)
	}

	payloads := make([]itemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, toItemPayload(item))
	}

	return c.JSON(fiber.Map{"items": payloads})
}

// Get возвращает один товар каталога.
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	itemID := c.Params("itemID")

	item, err := h.items.Get(itemID)
	if err != nil {
		h.logger.WithError(err).WithField("item_id", itemID).Warn("get item failed")
		return writeError(c, err)
	}

	return c.JSON(toItemPayload(item))
}
