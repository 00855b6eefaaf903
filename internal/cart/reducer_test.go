package cart

import (
	"testing"

	"github.com/ml-muebles/storefront/internal/money"
)

func int64Ptr(v int64) *int64 { return &v }

func TestReduceAddItemMergesSameLine(t *testing.T) {
	item := LineItem{ProductID: 10, VariationID: int64Ptr(77), UnitPrice: "8.900", Quantity: 1}
	items, _ := Reduce(nil, AddItem{Item: item})
	items, events := Reduce(items, AddItem{Item: item})

	if len(items) != 1 {
		t.Fatalf("expected single line, got %d", len(items))
	}
	if items[0].LineID != "10-77" {
		t.Fatalf("unexpected line id: %s", items[0].LineID)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", items[0].Quantity)
	}
	if len(events) != 1 || events[0].Type != EventItemAdded || events[0].Quantity != 2 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestReduceDistinctVariationsAreDistinctLines(t *testing.T) {
	items, _ := Reduce(nil, AddItem{Item: LineItem{ProductID: 10, VariationID: int64Ptr(1), Quantity: 1}})
	items, _ = Reduce(items, AddItem{Item: LineItem{ProductID: 10, VariationID: int64Ptr(2), Quantity: 1}})
	items, _ = Reduce(items, AddItem{Item: LineItem{ProductID: 10, Quantity: 1}})
	if len(items) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(items))
	}
	if items[2].LineID != "10" {
		t.Fatalf("unexpected simple product line id: %s", items[2].LineID)
	}
}

func TestReduceUpdateQuantityNonPositiveRemoves(t *testing.T) {
	items, _ := Reduce(nil, AddItem{Item: LineItem{ProductID: 5, Quantity: 3}})
	for _, q := range []int{0, -2} {
		next, events := Reduce(items, UpdateQuantity{LineID: "5", Quantity: q})
		if len(next) != 0 {
			t.Fatalf("quantity %d should remove line, got %+v", q, next)
		}
		if len(events) != 1 || events[0].Type != EventItemRemoved {
			t.Fatalf("unexpected events for quantity %d: %+v", q, events)
		}
	}
}

func TestReduceUnknownLineIsNoop(t *testing.T) {
	items, _ := Reduce(nil, AddItem{Item: LineItem{ProductID: 5, Quantity: 3}})
	next, events := Reduce(items, UpdateQuantity{LineID: "99", Quantity: 4})
	if len(events) != 0 || next[0].Quantity != 3 {
		t.Fatalf("update of unknown line must be a no-op")
	}
	next, events = Reduce(items, RemoveItem{LineID: "99"})
	if len(events) != 0 || len(next) != 1 {
		t.Fatalf("remove of unknown line must be a no-op")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	items, _ := Reduce(nil, AddItem{Item: LineItem{ProductID: 5, Quantity: 3}})
	_, _ = Reduce(items, UpdateQuantity{LineID: "5", Quantity: 9})
	_, _ = Reduce(items, AddItem{Item: LineItem{ProductID: 5, Quantity: 1}})
	if items[0].Quantity != 3 {
		t.Fatalf("input state mutated: %d", items[0].Quantity)
	}
}

func TestReduceHydrateSanitizes(t *testing.T) {
	stored := []LineItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 1},
		{ProductID: 0, Quantity: 1},
		{ProductID: 2, Quantity: 0},
	}
	items, _ := Reduce(nil, Hydrate{Items: stored})
	if len(items) != 1 || items[0].LineID != "1" || items[0].Quantity != 3 {
		t.Fatalf("unexpected hydrated state: %+v", items)
	}
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, UnitPrice: "8.900", Quantity: 2},
		{ProductID: 2, UnitPrice: "3.100", Quantity: 1},
	}
	if got := TotalItemCount(items); got != 3 {
		t.Fatalf("unexpected item count: %d", got)
	}
	if got := Subtotal(items, money.DefaultFormat); got != "20.900" {
		t.Fatalf("unexpected subtotal: %s", got)
	}
}
