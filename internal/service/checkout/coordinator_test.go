package checkout_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	return logger.WithField("test", "checkout")
}

type fixture struct {
	items       domain.ItemRepository
	manager     *cart.Manager
	coordinator *checkout.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	orders := memory.NewOrderRepository(store)
	items := memory.NewItemRepository(store)
	users := memory.NewUserRepository(store)
	checkoutRepo := memory.NewCheckoutRepository(store)

	require.NoError(t, users.Create(domain.User{ID: "user-1", Email: "u1@example.com", Role: domain.RoleUser}))
	// Item A: цена 10.00, остаток 5; Item B: цена 5.00, остаток 1.
	require.NoError(t, items.Create(domain.Item{ID: "item-a", Name: "antivirus", PriceMinor: 1000, AvailableQty: 5}))
	require.NoError(t, items.Create(domain.Item{ID: "item-b", Name: "office-suite", PriceMinor: 500, AvailableQty: 1}))
	require.NoError(t, items.Create(domain.Item{ID: "item-low", Name: "photo-editor", PriceMinor: 700, AvailableQty: 2}))

	logger := loggerForTests()
	manager := cart.NewManagerWithoutMetrics(orders, items, users, logger)
	coordinator := checkout.NewCoordinatorWithoutMetrics(manager, items, checkoutRepo, logger)

	return &fixture{items: items, manager: manager, coordinator: coordinator}
}

func TestConfirmPurchase_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.coordinator.ConfirmPurchase("user-1")
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	// Сбой подтверждения не должен лениво создавать корзину.
	_, err = f.manager.GetCart("user-1")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestConfirmPurchase_Success(t *testing.T) {
	f := newFixture(t)

	// Корзина: A qty 2 (10.00) + B qty 1 (5.00) → итог 25.00.
	_, err := f.manager.AddItem("user-1", "item-a")
	require.NoError(t, err)
	_, err = f.manager.AddItem("user-1", "item-b")
	require.NoError(t, err)
	pending, err := f.manager.SetQuantity("user-1", "item-a", 2)
	require.NoError(t, err)
	require.Equal(t, int64(2500), pending.AmountMinor)

	confirmed, err := f.coordinator.ConfirmPurchase("user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
	assert.Equal(t, int64(2500), confirmed.AmountMinor)

	itemA, err := f.items.Get("item-a")
	require.NoError(t, err)
	itemB, err := f.items.Get("item-b")
	require.NoError(t, err)
	assert.Equal(t, int32(3), itemA.AvailableQty)
	assert.Equal(t, int32(0), itemB.AvailableQty)
}

func TestConfirmPurchase_NewCartAfterConfirmation(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.AddItem("user-1", "item-a")
	require.NoError(t, err)
	confirmed, err := f.coordinator.ConfirmPurchase("user-1")
	require.NoError(t, err)

	fresh, err := f.manager.GetOrCreateCart("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, confirmed.ID, fresh.ID, "confirmation must yield a brand new cart")
	assert.Equal(t, domain.OrderStatusCart, fresh.Status)
	assert.Empty(t, fresh.Items)
	assert.Zero(t, fresh.AmountMinor)
}

func TestConfirmPurchase_OutOfStockNamesItemAndKeepsStock(t *testing.T) {
	f := newFixture(t)

	// Остаток photo-editor равен 2, запрошено 3.
	_, err := f.manager.AddItem("user-1", "item-low")
	require.NoError(t, err)
	_, err = f.manager.SetQuantity("user-1", "item-low", 3)
	require.NoError(t, err)

	_, err = f.coordinator.ConfirmPurchase("user-1")
	require.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Contains(t, err.Error(), "photo-editor")

	item, err := f.items.Get("item-low")
	require.NoError(t, err)
	assert.Equal(t, int32(2), item.AvailableQty, "no partial decrement on failure")

	// Корзина осталась активной и нетронутой.
	c, err := f.manager.GetOrCreateCart("user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCart, c.Status)
	require.Len(t, c.Items, 1)
}

// Параллельные подтверждения одной и той же корзины: побеждает ровно одно,
// проигравшие получают ErrConflict или ErrEmptyCart и не оставляют после
// себя новую пустую корзину.
func TestConfirmPurchase_SameUserConcurrentConfirms(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.AddItem("user-1", "item-a")
	require.NoError(t, err)

	const attempts = 4
	var succeeded int64
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.coordinator.ConfirmPurchase("user-1"); err != nil {
				errs <- err
				return
			}
			atomic.AddInt64(&succeeded, 1)
		}()
	}
	wg.Wait()
	close(errs)

	assert.EqualValues(t, 1, succeeded)
	for err := range errs {
		ok := errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrEmptyCart)
		assert.True(t, ok, "unexpected loser error: %v", err)
	}

	// Корзина подтверждена; новая не должна появиться как побочный эффект.
	_, err = f.manager.GetCart("user-1")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	item, err := f.items.Get("item-a")
	require.NoError(t, err)
	assert.EqualValues(t, 4, item.AvailableQty)
}

func TestConfirmPurchase_ConcurrentCheckoutsDoNotOversell(t *testing.T) {
	store := memory.NewStore()
	orders := memory.NewOrderRepository(store)
	items := memory.NewItemRepository(store)
	users := memory.NewUserRepository(store)
	checkoutRepo := memory.NewCheckoutRepository(store)
	logger := loggerForTests()

	// Один товар с остатком 3, пять покупателей по 2 единицы:
	// успеть может только один.
	require.NoError(t, items.Create(domain.Item{ID: "item-x", Name: "rare-license", PriceMinor: 1000, AvailableQty: 3}))

	const buyers = 5
	manager := cart.NewManagerWithoutMetrics(orders, items, users, logger)
	coordinator := checkout.NewCoordinatorWithoutMetrics(manager, items, checkoutRepo, logger)

	for i := 0; i < buyers; i++ {
		userID := string(rune('a' + i))
		require.NoError(t, users.Create(domain.User{ID: userID, Email: userID + "@example.com", Role: domain.RoleUser}))
		_, err := manager.AddItem(userID, "item-x")
		require.NoError(t, err)
		_, err = manager.SetQuantity(userID, "item-x", 2)
		require.NoError(t, err)
	}

	var succeeded int64
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		userID := string(rune('a' + i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := coordinator.ConfirmPurchase(userID); err == nil {
				atomic.AddInt64(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	item, err := items.Get("item-x")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, item.AvailableQty, int32(0), "stock must never go negative")
	assert.Equal(t, int32(3)-int32(succeeded)*2, item.AvailableQty)
	assert.EqualValues(t, 1, succeeded)
}
