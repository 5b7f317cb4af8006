package handler

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type linePayload struct {
	ItemID     string `json:"item_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
}

type orderPayload struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Status      string        `json:"status"`
	AmountMinor int64         `json:"amount_minor"`
	Items       []linePayload `json:"items"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type itemPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	LicenseType  string `json:"license_type,omitempty"`
	Duration     string `json:"duration,omitempty"`
	PriceMinor   int64  `json:"price_minor"`
	AvailableQty int32  `json:"available_qty"`
}

func toOrderPayload(order domain.Order) orderPayload {
	lines := make([]linePayload, 0, len(order.Items))
	for _, line := range order.Items {
		lines = append(lines, linePayload{
			ItemID:     line.ItemID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
		})
	}

	return orderPayload{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		AmountMinor: order.AmountMinor,
		Items:       lines,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func toOrderPayloads(orders []domain.Order) []orderPayload {
	payloads := make([]orderPayload, 0, len(orders))
	for _, order := range orders {
		payloads = append(payloads, toOrderPayload(order))
	}
	return payloads
}

func toItemPayload(item domain.Item) itemPayload {
	return itemPayload{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Category:     item.Category,
		ImageURL:     item.ImageURL,
		LicenseType:  item.LicenseType,
		Duration:     item.Duration,
		PriceMinor:   item.PriceMinor,
		AvailableQty: item.AvailableQty,
	}
}
