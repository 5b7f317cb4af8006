package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderRepositoryInMemory — реализация OrderRepository поверх общего Store.
type orderRepositoryInMemory struct {
	store *Store
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepositoryInMemory{store: store}
}

// Create сохраняет новый заказ, охраняя уникальность активной корзины.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return domain.ErrVersionConflict
	}
	if order.Status == domain.OrderStatusCart {
		for _, existing := range s.orders {
			if existing.UserID == order.UserID && existing.Status == domain.OrderStatusCart {
				return domain.ErrCartAlreadyExists
			}
		}
	}

	s.orders[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// GetCart возвращает единственную активную корзину пользователя.
func (r *orderRepositoryInMemory) GetCart(userID string) (domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, order := range s.orders {
		if order.UserID == userID && order.Status == domain.OrderStatusCart {
			return cloneOrder(order), nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// ListConfirmedByUser возвращает заказы пользователя вне статуса cart,
// новые первыми; limit > 0 ограничивает выборку.
func (r *orderRepositoryInMemory) ListConfirmedByUser(userID string, limit int) ([]domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if order.UserID != userID || order.Status == domain.OrderStatusCart {
			continue
		}
		result = append(result, cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Save перезаписывает заказ вместе с позициями, проверяя версию.
func (r *orderRepositoryInMemory) Save(order domain.Order) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrVersionConflict
	}
	// Инкрементируем версию перед сохранением.
	order.Version++
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

// Delete удаляет заказ; позиции хранятся внутри записи заказа и уходят вместе с ней.
func (r *orderRepositoryInMemory) Delete(id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
