package checkout

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
)

// Coordinator выполняет подтверждение покупки: проверка достаточности
// остатков по всем позициям, атомарное списание и перевод корзины в
// confirmed — всё как единая операция хранилища.
type Coordinator struct {
	carts         *cart.Manager
	items         domain.ItemRepository
	checkout      domain.CheckoutRepository
	logger        *log.Entry
	metrics       *metrics.StorefrontMetrics
	kafkaProducer *kafka.Producer // опциональный producer событий заказа
}

// конфликт версий при checkout повторяется один раз от свежей корзины.
const confirmAttempts = 2

// NewCoordinator конструирует координатор checkout.
func NewCoordinator(
	carts *cart.Manager,
	items domain.ItemRepository,
	checkoutRepo domain.CheckoutRepository,
	logger *log.Entry,
) *Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Coordinator{
		carts:    carts,
		items:    items,
		checkout: checkoutRepo,
		logger:   logger,
		metrics:  metrics.NewStorefrontMetrics(),
	}
}

// NewCoordinatorWithKafka конструирует координатор, публикующий события
// подтверждённых заказов в Kafka.
func NewCoordinatorWithKafka(
	carts *cart.Manager,
	items domain.ItemRepository,
	checkoutRepo domain.CheckoutRepository,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Coordinator {
	c := NewCoordinator(carts, items, checkoutRepo, logger)
	c.kafkaProducer = kafkaProducer
	return c
}

// NewCoordinatorWithoutMetrics конструирует координатор без метрик (для тестов).
func NewCoordinatorWithoutMetrics(
	carts *cart.Manager,
	items domain.ItemRepository,
	checkoutRepo domain.CheckoutRepository,
	logger *log.Entry,
) *Coordinator {
	c := NewCoordinator(carts, items, checkoutRepo, logger)
	c.metrics = nil
	return c
}

// ConfirmPurchase переводит корзину пользователя в подтверждённый заказ.
// Возвращает ErrEmptyCart для корзины без позиций и ErrOutOfStock с именем
// товара при нехватке остатка; в обоих случаях состояние не меняется.
func (c *Coordinator) ConfirmPurchase(userID string) (domain.Order, error) {
	start := time.Now()
	if c.metrics != nil {
		c.metrics.RecordCheckoutStarted()
	}
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordCheckoutDuration(time.Since(start))
		}
	}()

	order, err := c.confirmWithRetry(userID)
	if err != nil {
		c.recordFailure(err)
		return domain.Order{}, err
	}

	if c.metrics != nil {
		c.metrics.RecordCheckoutCompleted()
	}
	c.logger.WithFields(log.Fields{
		"user_id":      userID,
		"order_id":     order.ID,
		"amount_minor": order.AmountMinor,
	}).Info("purchase confirmed")

	c.publishConfirmed(order)

	return order, nil
}

func (c *Coordinator) confirmWithRetry(userID string) (domain.Order, error) {
	for attempt := 1; attempt <= confirmAttempts; attempt++ {
		// Checkout читает корзину без ленивого создания: подтверждение
		// несуществующей корзины не должно оставлять после себя пустую.
		cartOrder, err := c.carts.GetCart(userID)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				if attempt > 1 {
					// Корзину между попытками подтвердил параллельный checkout.
					return domain.Order{}, domain.ErrConflict
				}
				return domain.Order{}, domain.ErrEmptyCart
			}
			return domain.Order{}, err
		}
		if len(cartOrder.Items) == 0 {
			return domain.Order{}, domain.ErrEmptyCart
		}

		// Предварительная проверка всех позиций до какой-либо мутации:
		// ошибка называет конкретный товар, и никакие остатки не трогаются.
		decrements := make([]domain.StockDecrement, 0, len(cartOrder.Items))
		for _, line := range cartOrder.Items {
			item, err := c.items.Get(line.ItemID)
			if err != nil {
				return domain.Order{}, fmt.Errorf("resolve item %s: %w", line.ItemID, err)
			}
			if !item.HasStock(line.Qty) {
				return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrOutOfStock, item.Name)
			}
			decrements = append(decrements, domain.StockDecrement{ItemID: line.ItemID, Qty: line.Qty})
		}

		confirmed, err := c.checkout.ConfirmCheckout(cartOrder, decrements)
		if err != nil {
			if domain.IsVersionConflict(err) {
				c.logger.WithFields(log.Fields{
					"user_id":  userID,
					"order_id": cartOrder.ID,
					"attempt":  attempt,
				}).Warn("checkout contention, retrying from fresh cart")
				continue
			}
			return domain.Order{}, err
		}

		return confirmed, nil
	}

	return domain.Order{}, domain.ErrConflict
}

func (c *Coordinator) recordFailure(err error) {
	if c.metrics == nil {
		return
	}
	if errors.Is(err, domain.ErrOutOfStock) {
		c.metrics.RecordCheckoutOutOfStock()
	}
	c.metrics.RecordCheckoutFailed()
}

// publishConfirmed отправляет событие заказа в Kafka, если producer настроен.
// Публикация best-effort: заказ уже зафиксирован, ошибка только логируется.
func (c *Coordinator) publishConfirmed(order domain.Order) {
	if c.kafkaProducer == nil {
		return
	}

	lines := make([]kafka.OrderEventLine, 0, len(order.Items))
	for _, line := range order.Items {
		lines = append(lines, kafka.OrderEventLine{
			ItemID:     line.ItemID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
		})
	}
	event := kafka.NewOrderEvent(
		kafka.EventTypeOrderConfirmed,
		order.ID,
		order.UserID,
		string(order.Status),
		order.AmountMinor,
		lines,
	)

	if err := c.kafkaProducer.PublishOrderEvent(event); err != nil {
		c.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order confirmed event")
	}
}
