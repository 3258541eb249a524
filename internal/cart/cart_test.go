package cart

import (
	"errors"
	"testing"

	"kmcpos/backend/internal/domain"
	"kmcpos/backend/internal/store"
)

func paracetamol() domain.Medicine {
	return domain.Medicine{ID: "MED001", Name: "Paracetamol 500mg", PriceCents: 1500, Stock: 100}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()

	for i := 0; i < 3; i++ {
		if err := c.AddItem(med); err != nil {
			t.Fatalf("add item %d: %v", i+1, err)
		}
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
	if lines[0].SubtotalCents != 4500 {
		t.Fatalf("expected subtotal 4500, got %d", lines[0].SubtotalCents)
	}
	if c.Total() != 4500 {
		t.Fatalf("expected total 4500, got %d", c.Total())
	}
}

func TestAddItemRejectsWhenOverStock(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()
	med.Stock = 2

	if err := c.AddItem(med); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := c.AddItem(med); err != nil {
		t.Fatalf("second add: %v", err)
	}
	err := c.AddItem(med)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if c.Lines()[0].Quantity != 2 {
		t.Fatalf("failed add must not change quantity, got %d", c.Lines()[0].Quantity)
	}
}

func TestAddItemRejectsOutOfStock(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()
	med.Stock = 0

	if err := c.AddItem(med); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if len(c.Lines()) != 0 {
		t.Fatalf("cart must stay empty after rejected add")
	}
}

func TestSetQuantityValidatesAgainstStock(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()
	med.Stock = 5

	if err := c.AddItem(med); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.SetQuantity(med, 6); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if err := c.SetQuantity(med, 5); err != nil {
		t.Fatalf("set quantity 5: %v", err)
	}
	if c.Total() != 7500 {
		t.Fatalf("expected total 7500, got %d", c.Total())
	}
}

func TestSetQuantityBelowOneIsIgnored(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()

	if err := c.AddItem(med); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.SetQuantity(med, 0); err != nil {
		t.Fatalf("set quantity 0 must be a no-op, got %v", err)
	}
	if c.Lines()[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", c.Lines()[0].Quantity)
	}
}

func TestSetQuantityUnknownLine(t *testing.T) {
	c := NewManager().Create()
	if err := c.SetQuantity(paracetamol(), 2); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveItemDropsWholeLine(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()

	for i := 0; i < 4; i++ {
		if err := c.AddItem(med); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	c.RemoveItem(med.ID)
	if len(c.Lines()) != 0 {
		t.Fatalf("expected empty cart after remove")
	}
	c.RemoveItem("missing")
}

func TestLineSnapshotsPriceAtFirstAdd(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()

	if err := c.AddItem(med); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A later catalog price change must not touch the existing line.
	med.PriceCents = 9900
	if err := c.AddItem(med); err != nil {
		t.Fatalf("second add: %v", err)
	}

	line := c.Lines()[0]
	if line.UnitPriceCents != 1500 {
		t.Fatalf("expected snapshot price 1500, got %d", line.UnitPriceCents)
	}
	if line.SubtotalCents != 3000 {
		t.Fatalf("expected subtotal 3000, got %d", line.SubtotalCents)
	}
}

func TestChangeDueClampsAtZero(t *testing.T) {
	c := NewManager().Create()
	med := paracetamol()

	for i := 0; i < 3; i++ {
		if err := c.AddItem(med); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if got := c.ChangeDue(5000); got != 500 {
		t.Fatalf("expected change 500, got %d", got)
	}
	if got := c.ChangeDue(4000); got != 0 {
		t.Fatalf("expected cash-short change 0, got %d", got)
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	c := m.Create()

	got, err := m.Get(c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("expected cart %s, got %s", c.ID, got.ID)
	}

	m.Discard(c.ID)
	if _, err := m.Get(c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after discard, got %v", err)
	}
	m.Discard(c.ID)
}
