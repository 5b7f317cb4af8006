package history

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
)

// View — проекция подтверждённых заказов пользователя плюс административное
// удаление заказа. Позиции заказов чтение не мутирует.
type View struct {
	orders        domain.OrderRepository
	logger        *log.Entry
	kafkaProducer *kafka.Producer // опциональный producer событий удаления
}

const defaultHistoryLimit = 100

// NewView конструирует проекцию истории заказов.
func NewView(orders domain.OrderRepository, logger *log.Entry) *View {
	if logger == nil {
		logger = log.New().WithField("component", "order-history")
	}
	return &View{orders: orders, logger: logger}
}

// NewViewWithKafka конструирует проекцию, публикующую событие удаления
// заказа в Kafka.
func NewViewWithKafka(orders domain.OrderRepository, kafkaProducer *kafka.Producer, logger *log.Entry) *View {
	v := NewView(orders, logger)
	v.kafkaProducer = kafkaProducer
	return v
}

// ListConfirmedOrders возвращает все заказы пользователя вне статуса cart.
// Порядок задокументирован: по времени создания по убыванию (новые первыми).
func (v *View) ListConfirmedOrders(userID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	orders, err := v.orders.ListConfirmedByUser(userID, limit)
	if err != nil {
		v.logger.WithError(err).WithField("user_id", userID).Error("failed to list order history")
		return nil, err
	}
	return orders, nil
}

// GetOrder возвращает заказ по идентификатору или ErrOrderNotFound.
// Проверка владения — забота внешнего слоя авторизации.
func (v *View) GetOrder(orderID string) (domain.Order, error) {
	return v.orders.Get(orderID)
}

// DeleteOrder безвозвратно удаляет заказ вместе с позициями — служебная
// операция очистки данных. Возвращает ErrOrderNotFound для чужого ID.
func (v *View) DeleteOrder(orderID string) error {
	order, err := v.orders.Get(orderID)
	if err != nil {
		return err
	}

	if err := v.orders.Delete(orderID); err != nil {
		return err
	}

	v.logger.WithFields(log.Fields{
		"order_id": orderID,
		"user_id":  order.UserID,
	}).Info("order deleted")

	v.publishDeleted(order)
	return nil
}

// publishDeleted отправляет событие удаления заказа в Kafka, если producer
// настроен. Публикация best-effort: заказ уже удалён, ошибка логируется.
func (v *View) publishDeleted(order domain.Order) {
	if v.kafkaProducer == nil {
		return
	}

	event := kafka.NewOrderEvent(
		kafka.EventTypeOrderDeleted,
		order.ID,
		order.UserID,
		string(order.Status),
		order.AmountMinor,
		nil,
	)
	if err := v.kafkaProducer.PublishOrderEvent(event); err != nil {
		v.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order deleted event")
	}
}
