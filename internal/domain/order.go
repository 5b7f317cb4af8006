package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в витрине.
type OrderStatus string

const (
	// OrderStatusCart — активная корзина пользователя, её позиции можно менять.
	OrderStatusCart OrderStatus = "cart"
	// OrderStatusConfirmed — покупка подтверждена, сток списан, заказ неизменяем.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusPending — терминальный статус, назначаемый внешней админкой.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCancelled — заказ отменён внешней админкой.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// LineItem представляет одну позицию заказа: ссылку на товар и количество.
// Внутри одного заказа товар встречается не более одного раза.
type LineItem struct {
	ID string
	// ItemID — идентификатор товара в каталоге; позиция ссылается на товар, но не владеет им.
	ItemID string
	// Qty — количество единиц, всегда > 0.
	Qty int32
	// PriceMinor — цена за единицу на момент последнего пересчёта суммы.
	PriceMinor int64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// Order агрегирует корзину/заказ пользователя и его позиции.
type Order struct {
	ID     string
	UserID string
	Status OrderStatus
	// AmountMinor — производная сумма Σ qty*price; никогда не задаётся извне.
	AmountMinor int64
	Items       []LineItem
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCart сообщает, является ли заказ активной корзиной.
func (o *Order) IsCart() bool {
	return o.Status == OrderStatusCart
}

// LineIndex возвращает индекс позиции с указанным товаром или -1.
func (o *Order) LineIndex(itemID string) int {
	for i := range o.Items {
		if o.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// RemoveLine удаляет позицию с указанным товаром.
// Возвращает false, если товара в заказе не было (удаление идемпотентно).
func (o *Order) RemoveLine(itemID string) bool {
	idx := o.LineIndex(itemID)
	if idx < 0 {
		return false
	}
	o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
	return true
}

// RecalculateTotal пересчитывает сумму заказа из текущих позиций.
// Вызывается синхронно при каждой структурной мутации корзины.
func (o *Order) RecalculateTotal() {
	var total int64
	for _, line := range o.Items {
		total += int64(line.Qty) * line.PriceMinor
	}
	o.AmountMinor = total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	// Пустая корзина допустима; подтверждённый заказ без позиций — нет.
	if o.Status == OrderStatusConfirmed && len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.AmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	seen := make(map[string]bool, len(o.Items))
	var calc int64
	for _, line := range o.Items {
		if line.ItemID == "" {
			errs = append(errs, ErrLineItemRequired)
		}
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.PriceMinor < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
		if seen[line.ItemID] {
			errs = append(errs, ErrLineItemDuplicate)
		}
		seen[line.ItemID] = true
		calc += int64(line.Qty) * line.PriceMinor
	}
	if calc != o.AmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
