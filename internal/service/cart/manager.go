package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Manager владеет жизненным циклом активной корзины: находит или лениво
// создаёт единственную корзину пользователя, мутирует её позиции и
// синхронно пересчитывает сумму после каждой мутации.
type Manager struct {
	orders        domain.OrderRepository
	items         domain.ItemRepository
	users         domain.UserRepository
	logger        *log.Entry
	metrics       *metrics.StorefrontMetrics
	kafkaProducer *kafka.Producer // опциональный producer событий корзины
}

// мутации повторяются один раз при конфликте версий; дальше — ErrConflict.
const mutationAttempts = 2

// NewManager конструирует менеджер корзины с зависимостями.
func NewManager(
	orders domain.OrderRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	logger *log.Entry,
) *Manager {
	if logger == nil {
		logger = log.New().WithField("component", "cart-manager")
	}
	return &Manager{
		orders:  orders,
		items:   items,
		users:   users,
		logger:  logger,
		metrics: metrics.NewStorefrontMetrics(),
	}
}

// NewManagerWithKafka конструирует менеджер, публикующий событие очистки
// корзины в Kafka.
func NewManagerWithKafka(
	orders domain.OrderRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Manager {
	m := NewManager(orders, items, users, logger)
	m.kafkaProducer = kafkaProducer
	return m
}

// NewManagerWithoutMetrics конструирует менеджер без метрик (для тестов).
func NewManagerWithoutMetrics(
	orders domain.OrderRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	logger *log.Entry,
) *Manager {
	m := NewManager(orders, items, users, logger)
	m.metrics = nil
	return m
}

// GetOrCreateCart возвращает активную корзину пользователя, создавая её при
// первом обращении. Повторные вызовы возвращают ту же корзину до checkout.
// Возвращает ErrUserNotFound, если пользователь не существует.
func (m *Manager) GetOrCreateCart(userID string) (domain.Order, error) {
	cart, err := m.orders.GetCart(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, fmt.Errorf("lookup cart: %w", err)
	}

	if _, err := m.users.Get(userID); err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	fresh := domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Status:      domain.OrderStatusCart,
		AmountMinor: 0,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.orders.Create(fresh); err != nil {
		// Проигравшая гонку транзакция повторяет поиск существующей корзины.
		if errors.Is(err, domain.ErrCartAlreadyExists) {
			return m.orders.GetCart(userID)
		}
		m.logger.WithError(err).WithField("user_id", userID).Error("failed to create cart")
		return domain.Order{}, fmt.Errorf("create cart: %w", err)
	}

	if m.metrics != nil {
		m.metrics.RecordCartCreated()
	}
	m.logger.WithFields(log.Fields{
		"user_id":  userID,
		"order_id": fresh.ID,
	}).Info("cart created")

	return fresh, nil
}

// GetCart возвращает активную корзину пользователя без ленивого создания.
// Возвращает ErrOrderNotFound, если корзины нет.
func (m *Manager) GetCart(userID string) (domain.Order, error) {
	return m.orders.GetCart(userID)
}

// AddItem добавляет товар в корзину с количеством 1. Повторное добавление
// того же товара не меняет количество — оно меняется только через SetQuantity.
func (m *Manager) AddItem(userID, itemID string) (domain.Order, error) {
	item, err := m.items.Get(itemID)
	if err != nil {
		return domain.Order{}, err
	}
	if !item.InStock() {
		return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrOutOfStock, item.Name)
	}

	return m.mutateCart(userID, "add_item", func(cart *domain.Order) error {
		if cart.LineIndex(itemID) >= 0 {
			// Товар уже в корзине: структура и количество не меняются.
			return nil
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ID:         uuid.NewString(),
			ItemID:     itemID,
			Qty:        1,
			PriceMinor: item.PriceMinor,
			CreatedAt:  time.Now().UTC(),
		})
		return nil
	})
}

// RemoveItem удаляет товар из корзины. Отсутствие товара не является ошибкой.
func (m *Manager) RemoveItem(userID, itemID string) (domain.Order, error) {
	return m.mutateCart(userID, "remove_item", func(cart *domain.Order) error {
		cart.RemoveLine(itemID)
		return nil
	})
}

// SetQuantity перезаписывает количество позиции. Возвращает ErrInvalidQuantity
// при qty <= 0 и ErrLineItemNotFound, если товара нет в корзине.
func (m *Manager) SetQuantity(userID, itemID string, qty int32) (domain.Order, error) {
	if qty <= 0 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}

	return m.mutateCart(userID, "set_quantity", func(cart *domain.Order) error {
		idx := cart.LineIndex(itemID)
		if idx < 0 {
			return domain.ErrLineItemNotFound
		}
		cart.Items[idx].Qty = qty
		return nil
	})
}

// ClearCart удаляет все позиции и обнуляет сумму. No-op для пустой корзины.
func (m *Manager) ClearCart(userID string) error {
	cleared, err := m.mutateCart(userID, "clear_cart", func(cart *domain.Order) error {
		cart.Items = nil
		return nil
	})
	if err != nil {
		return err
	}

	m.publishCleared(cleared)
	return nil
}

// publishCleared отправляет событие очистки корзины в Kafka, если producer
// настроен. Публикация best-effort: корзина уже очищена, ошибка логируется.
func (m *Manager) publishCleared(cart domain.Order) {
	if m.kafkaProducer == nil {
		return
	}

	event := kafka.NewOrderEvent(
		kafka.EventTypeCartCleared,
		cart.ID,
		cart.UserID,
		string(cart.Status),
		cart.AmountMinor,
		nil,
	)
	if err := m.kafkaProducer.PublishOrderEvent(event); err != nil {
		m.logger.WithError(err).WithField("order_id", cart.ID).Warn("failed to publish cart cleared event")
	}
}

// mutateCart выполняет цикл "загрузить корзину → мутировать → пересчитать
// сумму → сохранить". Конфликт версий повторяется один раз от свежего
// состояния; повторный конфликт поднимается как ErrConflict.
func (m *Manager) mutateCart(userID, operation string, mutate func(cart *domain.Order) error) (domain.Order, error) {
	for attempt := 1; attempt <= mutationAttempts; attempt++ {
		cart, err := m.GetOrCreateCart(userID)
		if err != nil {
			return domain.Order{}, err
		}

		if err := mutate(&cart); err != nil {
			return domain.Order{}, err
		}

		if err := m.refreshPrices(&cart); err != nil {
			return domain.Order{}, err
		}
		cart.RecalculateTotal()
		cart.UpdatedAt = time.Now().UTC()

		if err := m.orders.Save(cart); err != nil {
			if domain.IsVersionConflict(err) {
				m.logger.WithFields(log.Fields{
					"operation": operation,
					"user_id":   userID,
					"attempt":   attempt,
				}).Warn("cart version conflict, retrying from fresh state")
				continue
			}
			m.logger.WithError(err).WithFields(log.Fields{
				"operation": operation,
				"user_id":   userID,
			}).Error("failed to save cart")
			return domain.Order{}, fmt.Errorf("save cart: %w", err)
		}

		if m.metrics != nil {
			m.metrics.RecordCartMutation(operation)
		}

		// Сумма отдаётся из-под зафиксированного состояния, не из памяти.
		return m.orders.Get(cart.ID)
	}

	return domain.Order{}, domain.ErrConflict
}

// refreshPrices обновляет цены позиций из текущего каталога,
// чтобы сумма всегда считалась по актуальным ценам.
func (m *Manager) refreshPrices(cart *domain.Order) error {
	for i := range cart.Items {
		item, err := m.items.Get(cart.Items[i].ItemID)
		if err != nil {
			return fmt.Errorf("resolve item %s: %w", cart.Items[i].ItemID, err)
		}
		cart.Items[i].PriceMinor = item.PriceMinor
	}
	return nil
}
