package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newCart(id, userID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:          id,
		UserID:      userID,
		Status:      domain.OrderStatusCart,
		AmountMinor: 0,
		Version:     0,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	cart := newCart("order-1", "user-1", time.Now().UTC())

	if err := repo.Create(cart); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(cart.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != cart.ID {
		t.Fatalf("expected id %s, got %s", cart.ID, stored.ID)
	}
}

func TestOrderRepository_CartUniqueness(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	now := time.Now().UTC()

	if err := repo.Create(newCart("order-1", "user-1", now)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(newCart("order-2", "user-1", now)); !errors.Is(err, domain.ErrCartAlreadyExists) {
		t.Fatalf("expected ErrCartAlreadyExists, got %v", err)
	}
	// Другая корзина того же пользователя допустима после подтверждения первой.
	confirmed := newCart("order-3", "user-2", now)
	if err := repo.Create(confirmed); err != nil {
		t.Fatalf("create for another user failed: %v", err)
	}
}

func TestOrderRepository_GetCart(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	now := time.Now().UTC()

	if _, err := repo.GetCart("user-1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	if err := repo.Create(newCart("order-1", "user-1", now)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cart, err := repo.GetCart("user-1")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.ID != "order-1" {
		t.Fatalf("expected order-1, got %s", cart.ID)
	}
}

func TestOrderRepository_ListConfirmedByUser(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	base := time.Now().UTC()

	older := newCart("order-1", "user-1", base.Add(-time.Hour))
	older.Status = domain.OrderStatusConfirmed
	older.Items = []domain.LineItem{{ID: "line-1", ItemID: "item-1", Qty: 1, PriceMinor: 100}}
	older.AmountMinor = 100
	newer := newCart("order-2", "user-1", base)
	newer.Status = domain.OrderStatusConfirmed
	newer.Items = []domain.LineItem{{ID: "line-2", ItemID: "item-2", Qty: 1, PriceMinor: 200}}
	newer.AmountMinor = 200
	cart := newCart("order-3", "user-1", base)

	for _, order := range []domain.Order{older, newer, cart} {
		if err := repo.Create(order); err != nil {
			t.Fatalf("create %s failed: %v", order.ID, err)
		}
	}

	orders, err := repo.ListConfirmedByUser("user-1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// Новые первыми, активная корзина исключена.
	if orders[0].ID != "order-2" || orders[1].ID != "order-1" {
		t.Fatalf("unexpected order: %s, %s", orders[0].ID, orders[1].ID)
	}
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	cart := newCart("order-1", "user-1", time.Now().UTC())
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cart.Version = 42
	if err := repo.Save(cart); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestOrderRepository_SaveIncrementsVersion(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	cart := newCart("order-1", "user-1", time.Now().UTC())
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(cart.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	stored.Items = []domain.LineItem{{ID: "line-1", ItemID: "item-1", Qty: 2, PriceMinor: 100}}
	stored.AmountMinor = 200
	if err := repo.Save(stored); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := repo.Get(cart.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.AmountMinor != 200 {
		t.Fatalf("expected amount 200, got %d", updated.AmountMinor)
	}
	if updated.Version != stored.Version+1 {
		t.Fatalf("expected version increment, got %d", updated.Version)
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	cart := newCart("order-1", "user-1", time.Now().UTC())
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(cart.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(cart.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}
	if err := repo.Delete(cart.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on repeated delete, got %v", err)
	}
}
