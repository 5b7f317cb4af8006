package postgres

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestCheckoutRepository_PostgresConfirmDecrementsStock(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)
	items := NewItemRepository(store)
	checkout := NewCheckoutRepository(store)

	user := createIntegrationUser(t, store, "user-1")
	itemA := createIntegrationItem(t, store, "antivirus", 1000, 5)
	itemB := createIntegrationItem(t, store, "office-suite", 500, 1)

	now := time.Now().UTC().Round(time.Microsecond)
	cart := cartWithLines(user.ID, now, lineFor(itemA, 2, now), lineFor(itemB, 1, now))
	if err := orders.Create(cart); err != nil {
		t.Fatalf("create cart: %v", err)
	}

	confirmed, err := checkout.ConfirmCheckout(cart, []domain.StockDecrement{
		{ItemID: itemA.ID, Qty: 2},
		{ItemID: itemB.ID, Qty: 1},
	})
	if err != nil {
		t.Fatalf("confirm checkout: %v", err)
	}
	if confirmed.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", confirmed.Status)
	}

	persisted, err := orders.Get(cart.ID)
	if err != nil {
		t.Fatalf("get confirmed order: %v", err)
	}
	if persisted.Status != domain.OrderStatusConfirmed {
		t.Fatalf("confirmed status not persisted: %s", persisted.Status)
	}

	gotA, err := items.Get(itemA.ID)
	if err != nil {
		t.Fatalf("get item a: %v", err)
	}
	if gotA.AvailableQty != 3 {
		t.Fatalf("expected stock 3 for item a, got %d", gotA.AvailableQty)
	}

	gotB, err := items.Get(itemB.ID)
	if err != nil {
		t.Fatalf("get item b: %v", err)
	}
	if gotB.AvailableQty != 0 {
		t.Fatalf("expected stock 0 for item b, got %d", gotB.AvailableQty)
	}
}

func TestCheckoutRepository_PostgresOutOfStockRollsBackEverything(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)
	items := NewItemRepository(store)
	checkout := NewCheckoutRepository(store)

	user := createIntegrationUser(t, store, "user-1")
	itemA := createIntegrationItem(t, store, "antivirus", 1000, 5)
	itemB := createIntegrationItem(t, store, "photo-editor", 700, 2)

	now := time.Now().UTC().Round(time.Microsecond)
	cart := cartWithLines(user.ID, now, lineFor(itemA, 2, now), lineFor(itemB, 3, now))
	if err := orders.Create(cart); err != nil {
		t.Fatalf("create cart: %v", err)
	}

	_, err := checkout.ConfirmCheckout(cart, []domain.StockDecrement{
		{ItemID: itemA.ID, Qty: 2},
		{ItemID: itemB.ID, Qty: 3},
	})
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if !strings.Contains(err.Error(), "photo-editor") {
		t.Fatalf("expected item name in error, got %v", err)
	}

	// Ни статус заказа, ни остаток первого товара не должны измениться.
	persisted, err := orders.Get(cart.ID)
	if err != nil {
		t.Fatalf("get cart after failed checkout: %v", err)
	}
	if persisted.Status != domain.OrderStatusCart {
		t.Fatalf("cart status mutated after rollback: %s", persisted.Status)
	}

	gotA, err := items.Get(itemA.ID)
	if err != nil {
		t.Fatalf("get item a: %v", err)
	}
	if gotA.AvailableQty != 5 {
		t.Fatalf("stock leaked on rollback: %d", gotA.AvailableQty)
	}
}

func TestCheckoutRepository_PostgresVersionConflict(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)
	checkout := NewCheckoutRepository(store)

	user := createIntegrationUser(t, store, "user-1")
	item := createIntegrationItem(t, store, "antivirus", 1000, 5)

	now := time.Now().UTC().Round(time.Microsecond)
	cart := cartWithLines(user.ID, now, lineFor(item, 1, now))
	if err := orders.Create(cart); err != nil {
		t.Fatalf("create cart: %v", err)
	}

	stale := cart
	stale.Version = cart.Version + 10

	_, err := checkout.ConfirmCheckout(stale, []domain.StockDecrement{{ItemID: item.ID, Qty: 1}})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	// Повторное подтверждение уже подтверждённого заказа тоже конфликтует.
	if _, err := checkout.ConfirmCheckout(cart, []domain.StockDecrement{{ItemID: item.ID, Qty: 1}}); err != nil {
		t.Fatalf("confirm checkout: %v", err)
	}
	confirmedAgain := cart
	confirmedAgain.Version = cart.Version + 1
	if _, err := checkout.ConfirmCheckout(confirmedAgain, []domain.StockDecrement{{ItemID: item.ID, Qty: 1}}); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict on double confirm, got %v", err)
	}
}
