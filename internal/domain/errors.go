package domain

import "errors"

var (
	// ErrUserRequired — отсутствует идентификатор владельца заказа.
	ErrUserRequired = errors.New("user_id is required")
	// ErrItemsRequired — подтверждённый заказ обязан содержать хотя бы одну позицию.
	ErrItemsRequired = errors.New("confirmed order must contain at least one item")
	// ErrAmountNegative — отрицательная сумма заказа.
	ErrAmountNegative = errors.New("amount_minor must be non-negative")
	// ErrLineItemRequired — позиция без ссылки на товар.
	ErrLineItemRequired = errors.New("line item must reference an item")
	// ErrLineQtyInvalid — некорректное количество позиции (<= 0).
	ErrLineQtyInvalid = errors.New("line item qty must be greater than zero")
	// ErrLinePriceInvalid — отрицательная цена позиции.
	ErrLinePriceInvalid = errors.New("line item price must be non-negative")
	// ErrLineItemDuplicate — товар встречается в заказе более одного раза.
	ErrLineItemDuplicate = errors.New("item is already referenced by another line of the order")
	// ErrAmountMismatch — сумма заказа не совпадает с суммой позиций.
	ErrAmountMismatch = errors.New("order amount does not match lines sum")
	// ErrItemNameRequired — товар без имени.
	ErrItemNameRequired = errors.New("item name is required")
	// ErrItemPriceInvalid — отрицательная цена товара.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// ErrItemStockNegative — отрицательный остаток товара.
	ErrItemStockNegative = errors.New("item available_qty must be non-negative")
	// ErrRoleInvalid — роль вне допустимого набора admin|user.
	ErrRoleInvalid = errors.New("role must be 'admin' or 'user'")

	// ErrUserNotFound возвращается, если пользователь не найден в хранилище.
	ErrUserNotFound = errors.New("user not found")
	// ErrItemNotFound возвращается, если товар не найден в каталоге.
	ErrItemNotFound = errors.New("item not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrLineItemNotFound — товар отсутствует среди позиций корзины.
	ErrLineItemNotFound = errors.New("item is not in the cart")

	// ErrOutOfStock — недостаточный остаток; оборачивается именем товара.
	ErrOutOfStock = errors.New("out of stock")
	// ErrEmptyCart — попытка подтвердить покупку с пустой корзиной.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity — неположительное количество в запросе.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrCartAlreadyExists сигнализирует о нарушении уникальности активной корзины;
	// проигравшая транзакция повторяет поиск существующей корзины.
	ErrCartAlreadyExists = errors.New("active cart already exists for user")
	// ErrVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrVersionConflict = errors.New("version conflict")
	// ErrConflict — конкурентная гонка, не разрешившаяся после повтора.
	ErrConflict = errors.New("concurrent modification conflict")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsNotFound объединяет все ошибки отсутствия сущностей.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrLineItemNotFound)
}
