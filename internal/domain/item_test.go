package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestItemStockChecks(t *testing.T) {
	item := domain.Item{ID: "item-1", Name: "office-suite", PriceMinor: 1000, AvailableQty: 2}

	if !item.InStock() {
		t.Fatal("item with stock 2 must be in stock")
	}
	if !item.HasStock(2) {
		t.Fatal("stock 2 must cover qty 2")
	}
	if item.HasStock(3) {
		t.Fatal("stock 2 must not cover qty 3")
	}

	item.AvailableQty = 0
	if item.InStock() {
		t.Fatal("item with stock 0 must not be in stock")
	}
}

func TestItemValidateInvariants(t *testing.T) {
	item := domain.Item{Name: "office-suite", PriceMinor: 1000, AvailableQty: 5}
	if errs := item.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	bad := domain.Item{Name: "", PriceMinor: -1, AvailableQty: -2}
	if errs := bad.ValidateInvariants(); len(errs) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", errs)
	}
}
