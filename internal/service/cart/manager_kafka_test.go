package cart_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newKafkaManager(t *testing.T, mockProducer *mocks.SyncProducer) *cart.Manager {
	t.Helper()
	store := memory.NewStore()
	orders := memory.NewOrderRepository(store)
	items := memory.NewItemRepository(store)
	users := memory.NewUserRepository(store)

	require.NoError(t, users.Create(domain.User{ID: "user-1", Email: "u1@example.com", Role: domain.RoleUser}))
	require.NoError(t, items.Create(domain.Item{ID: "item-a", Name: "antivirus", PriceMinor: 1000, AvailableQty: 5}))

	producer := kafka.NewProducerFromSyncProducer(mockProducer)
	return cart.NewManagerWithKafka(orders, items, users, producer, loggerForTests())
}

func TestClearCart_PublishesCartClearedEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	manager := newKafkaManager(t, mockProducer)

	_, err := manager.AddItem("user-1", "item-a")
	require.NoError(t, err)

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var event kafka.OrderEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		if event.EventType != kafka.EventTypeCartCleared {
			return fmt.Errorf("unexpected event type %q", event.EventType)
		}
		if event.UserID != "user-1" {
			return fmt.Errorf("unexpected user id %q", event.UserID)
		}
		return nil
	})

	require.NoError(t, manager.ClearCart("user-1"))

	cleared, err := manager.GetCart("user-1")
	require.NoError(t, err)
	require.Empty(t, cleared.Items)
	require.Zero(t, cleared.AmountMinor)

	require.NoError(t, mockProducer.Close())
}

func TestClearCart_KafkaFailureDoesNotFailClear(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	manager := newKafkaManager(t, mockProducer)

	_, err := manager.AddItem("user-1", "item-a")
	require.NoError(t, err)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	// Публикация best-effort: корзина очищается даже при недоступной Kafka.
	require.NoError(t, manager.ClearCart("user-1"))

	cleared, err := manager.GetCart("user-1")
	require.NoError(t, err)
	require.Empty(t, cleared.Items)

	require.NoError(t, mockProducer.Close())
}
