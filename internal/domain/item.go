package domain

import "time"

// Item — покупаемая позиция каталога (цифровая лицензия) с ценой и остатком.
type Item struct {
	ID string
	// Name уникально в пределах каталога.
	Name        string
	Description string
	Category    string
	ImageURL    string
	// LicenseType и Duration — описательные атрибуты лицензии.
	LicenseType string
	Duration    string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// AvailableQty — доступный остаток, всегда >= 0.
	// Меняется каталогом (внешняя админка) и списанием при checkout.
	AvailableQty int32
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InStock сообщает, доступен ли товар для добавления в корзину.
func (i *Item) InStock() bool {
	return i.AvailableQty > 0
}

// HasStock проверяет достаточность остатка под запрошенное количество.
func (i *Item) HasStock(qty int32) bool {
	return i.AvailableQty >= qty
}

// ValidateInvariants проверяет базовые инварианты товара.
func (i *Item) ValidateInvariants() []error {
	var errs []error

	if i.Name == "" {
		errs = append(errs, ErrItemNameRequired)
	}
	if i.PriceMinor < 0 {
		errs = append(errs, ErrItemPriceInvalid)
	}
	if i.AvailableQty < 0 {
		errs = append(errs, ErrItemStockNegative)
	}

	return errs
}
