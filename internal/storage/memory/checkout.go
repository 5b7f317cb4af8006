package memory

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// checkoutInMemory выполняет атомарный checkout под общим write-lock хранилища.
type checkoutInMemory struct {
	store *Store
}

// NewCheckoutRepository возвращает in-memory реализацию CheckoutRepository.
func NewCheckoutRepository(store *Store) domain.CheckoutRepository {
	return &checkoutInMemory{store: store}
}

// ConfirmCheckout проверяет остатки, списывает их и переводит заказ в confirmed.
// Все три шага происходят под одним мьютексом: либо применяются целиком, либо никак.
func (c *checkoutInMemory) ConfirmCheckout(order domain.Order, decrements []domain.StockDecrement) (domain.Order, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[order.ID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.Order{}, domain.ErrVersionConflict
	}
	if current.Status != domain.OrderStatusCart {
		return domain.Order{}, domain.ErrVersionConflict
	}

	// Предварительная проверка всех позиций до первой мутации.
	for _, dec := range decrements {
		item, ok := s.items[dec.ItemID]
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, dec.ItemID)
		}
		if item.AvailableQty < dec.Qty {
			return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrOutOfStock, item.Name)
		}
	}

	now := time.Now().UTC()
	for _, dec := range decrements {
		item := s.items[dec.ItemID]
		item.AvailableQty -= dec.Qty
		item.Version++
		item.UpdatedAt = now
		s.items[dec.ItemID] = item
	}

	confirmed := cloneOrder(order)
	confirmed.Status = domain.OrderStatusConfirmed
	confirmed.UpdatedAt = now
	confirmed.Version++
	s.orders[confirmed.ID] = cloneOrder(confirmed)

	return confirmed, nil
}

var _ domain.CheckoutRepository = (*checkoutInMemory)(nil)
