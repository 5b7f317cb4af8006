package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Store держит все in-memory таблицы под одним мьютексом, чтобы
// многосущностные операции (checkout) выполнялись атомарно.
type Store struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	items  map[string]domain.Item
	users  map[string]domain.User
}

// NewStore создаёт пустое in-memory хранилище для локальной разработки и тестов.
func NewStore() *Store {
	return &Store{
		orders: make(map[string]domain.Order),
		items:  make(map[string]domain.Item),
		users:  make(map[string]domain.User),
	}
}

// cloneOrder копирует заказ вместе со срезом позиций,
// чтобы избежать непредсказуемых мутаций извне.
func cloneOrder(order domain.Order) domain.Order {
	clone := order
	if order.Items != nil {
		clone.Items = make([]domain.LineItem, len(order.Items))
		copy(clone.Items, order.Items)
	}
	return clone
}
