package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderConfirmed EventType = "order.confirmed"
	EventTypeOrderDeleted   EventType = "order.deleted"

	// Cart события
	EventTypeCartCleared EventType = "cart.cleared"
)

// Topics для Kafka
const (
	TopicOrderEvents = "storefront.order.events"
)

// OrderEvent представляет событие жизненного цикла заказа.
type OrderEvent struct {
	EventType   EventType        `json:"event_type"`
	OrderID     string           `json:"order_id"`
	UserID      string           `json:"user_id"`
	Status      string           `json:"status"`
	AmountMinor int64            `json:"amount_minor"`
	Lines       []OrderEventLine `json:"lines,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// OrderEventLine — позиция заказа в составе события.
type OrderEventLine struct {
	ItemID     string `json:"item_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
}

// NewOrderEvent создает новое событие заказа.
func NewOrderEvent(eventType EventType, orderID, userID, status string, amountMinor int64, lines []OrderEventLine) *OrderEvent {
	return &OrderEvent{
		EventType:   eventType,
		OrderID:     orderID,
		UserID:      userID,
		Status:      status,
		AmountMinor: amountMinor,
		Lines:       lines,
		Timestamp:   time.Now(),
	}
}
