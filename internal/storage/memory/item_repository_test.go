package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestItemRepository_CreateGetList(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())

	if err := repo.Create(domain.Item{ID: "item-1", Name: "office-suite", PriceMinor: 1000, AvailableQty: 5}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(domain.Item{ID: "item-2", Name: "antivirus", PriceMinor: 500, AvailableQty: 3}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	item, err := repo.Get("item-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if item.Name != "office-suite" {
		t.Fatalf("expected office-suite, got %s", item.Name)
	}

	items, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Каталог отсортирован по имени.
	if items[0].Name != "antivirus" || items[1].Name != "office-suite" {
		t.Fatalf("unexpected order: %s, %s", items[0].Name, items[1].Name)
	}
}

func TestItemRepository_UniqueName(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())

	if err := repo.Create(domain.Item{ID: "item-1", Name: "office-suite"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(domain.Item{ID: "item-2", Name: "office-suite"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestItemRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())

	if err := repo.Create(domain.Item{ID: "item-1", Name: "office-suite", AvailableQty: 5}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	item, err := repo.Get("item-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	item.AvailableQty = 4
	if err := repo.Save(item); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Повторное сохранение с устаревшей версией отклоняется.
	if err := repo.Save(item); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
