package domain

// OrderRepository описывает требования к хранилищу заказов.
// Позиции заказа принадлежат заказу и сохраняются/удаляются вместе с ним
// явным шагом репозитория, а не каскадом хранилища.
type OrderRepository interface {
	// Create сохраняет новый заказ. Для заказа в статусе cart возвращает
	// ErrCartAlreadyExists, если у пользователя уже есть активная корзина.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id string) (Order, error)
	// GetCart возвращает единственную активную корзину пользователя
	// или ErrOrderNotFound, если её нет.
	GetCart(userID string) (Order, error)
	// ListConfirmedByUser возвращает заказы пользователя вне статуса cart,
	// отсортированные по времени создания по убыванию (новые первыми).
	ListConfirmedByUser(userID string, limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
	// Delete удаляет заказ вместе с его позициями одной транзакцией.
	Delete(id string) error
}

// ItemRepository описывает требования к хранилищу каталога.
// Ядро читает цену/остаток и создаёт записи только в служебных утилитах;
// редактирование каталога — забота внешней админки.
type ItemRepository interface {
	// Create сохраняет новый товар; имя товара уникально.
	Create(item Item) error
	// Get возвращает товар или ErrItemNotFound.
	Get(id string) (Item, error)
	// List возвращает каталог, отсортированный по имени.
	List() ([]Item, error)
	// Save применяет обновления к товару с учётом optimistic locking.
	Save(item Item) error
}

// UserRepository нужен ядру только для быстрой проверки существования
// пользователя при создании корзины.
type UserRepository interface {
	// Create сохраняет нового пользователя; email уникален.
	Create(user User) error
	// Get возвращает пользователя или ErrUserNotFound.
	Get(id string) (User, error)
}

// StockDecrement — списание остатка одного товара при подтверждении покупки.
type StockDecrement struct {
	ItemID string
	Qty    int32
}

// CheckoutRepository выполняет атомарный переход корзины в подтверждённый заказ:
// проверка достаточности остатков, списание по каждому товару и смена статуса
// происходят в одной транзакции. Частично применённые списания невозможны.
type CheckoutRepository interface {
	// ConfirmCheckout списывает остатки и переводит заказ в confirmed.
	// Возвращает ErrOutOfStock (обёрнутую именем товара) без изменения
	// состояния, если хотя бы по одной позиции не хватает остатка;
	// ErrVersionConflict — при конкурентной мутации заказа.
	ConfirmCheckout(order Order, decrements []StockDecrement) (Order, error)
}
