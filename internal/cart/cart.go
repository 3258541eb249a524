package cart

import (
	"fmt"
	"sync"
	"time"

	"kmcpos/backend/internal/domain"
	"kmcpos/backend/internal/store"
	"kmcpos/backend/internal/xid"
)

// Cart accumulates sale lines for one counter session. Lines snapshot the
// medicine name and unit price at first add; later catalog edits never touch
// them. A cart lives in memory only and is discarded on commit.
type Cart struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	lines []domain.CartLine
}

func newCart() *Cart {
	return &Cart{
		ID:        xid.New("cart"),
		CreatedAt: time.Now().UTC(),
		lines:     make([]domain.CartLine, 0, 8),
	}
}

// AddItem appends a qty-1 line for the medicine, or bumps an existing line by
// one. The increment is rejected when it would exceed the medicine's current
// stock; the cart is left untouched in that case.
func (c *Cart) AddItem(med domain.Medicine) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].MedicineID != med.ID {
			continue
		}
		if c.lines[i].Quantity+1 > med.Stock {
			return fmt.Errorf("%w: only %d of %s available", store.ErrInsufficientStock, med.Stock, med.Name)
		}
		c.lines[i].Quantity++
		c.lines[i].SubtotalCents = int64(c.lines[i].Quantity) * c.lines[i].UnitPriceCents
		return nil
	}

	if med.Stock < 1 {
		return fmt.Errorf("%w: %s is out of stock", store.ErrInsufficientStock, med.Name)
	}
	c.lines = append(c.lines, domain.CartLine{
		MedicineID:     med.ID,
		MedicineName:   med.Name,
		Quantity:       1,
		UnitPriceCents: med.PriceCents,
		SubtotalCents:  med.PriceCents,
	})
	return nil
}

// SetQuantity replaces a line's quantity. Quantities above the medicine's
// current stock are rejected; quantities below 1 are ignored because removal
// is an explicit separate operation.
func (c *Cart) SetQuantity(med domain.Medicine, qty int) error {
	if qty < 1 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].MedicineID != med.ID {
			continue
		}
		if qty > med.Stock {
			return fmt.Errorf("%w: only %d of %s available", store.ErrInsufficientStock, med.Stock, med.Name)
		}
		c.lines[i].Quantity = qty
		c.lines[i].SubtotalCents = int64(qty) * c.lines[i].UnitPriceCents
		return nil
	}
	return store.ErrNotFound
}

// RemoveItem drops the line regardless of quantity. Unknown ids are a no-op.
func (c *Cart) RemoveItem(medicineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.MedicineID != medicineID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

// Total recomputes the sum of line subtotals on every call.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, line := range c.lines {
		total += line.SubtotalCents
	}
	return total
}

// ChangeDue is max(0, cashPaid - total). Cash-short is clamped to zero, not
// reported as a deficit.
func (c *Cart) ChangeDue(cashPaidCents int64) int64 {
	due := cashPaidCents - c.Total()
	if due < 0 {
		return 0
	}
	return due
}

// Lines returns a copy of the cart lines in the order they were added.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) View() domain.CartView {
	return domain.CartView{
		CartID:     c.ID,
		Lines:      c.Lines(),
		TotalCents: c.Total(),
	}
}

// Manager owns the live session carts. Carts are never persisted; they exist
// only between cart creation and checkout (or process exit).
type Manager struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

func (m *Manager) Create() *Cart {
	c := newCart()

	m.mu.Lock()
	m.carts[c.ID] = c
	m.mu.Unlock()

	return c
}

func (m *Manager) Get(cartID string) (*Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.carts[cartID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

// Discard drops the cart. Called after a successful commit and by the
// explicit abandon path; unknown ids are a no-op.
func (m *Manager) Discard(cartID string) {
	m.mu.Lock()
	delete(m.carts, cartID)
	m.mu.Unlock()
}
