package cart

import (
	"sync"
	"time"

	"github.com/prudentjag/inventory-pos/domain"
)

// Cart is the in-memory order being assembled at the terminal: one line per
// product, insertion-ordered. It guards itself with a mutex because the
// checkout path snapshots and clears it while the facade keeps serving
// mutations; it lives only until checkout succeeds or the cashier clears it.
type Cart struct {
	mu    sync.Mutex
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the existing line for the product or appends a new one
// with quantity 1. Stock is not checked here; over-adding is the backend's
// to reject at submission.
func (c *Cart) AddItem(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	})
}

// UpdateQuantity adjusts a line by delta. A result below 1 clamps at 1 so a
// stray extra tap never wipes a line; removal is always explicit. Unknown
// products are ignored.
func (c *Cart) UpdateQuantity(productID int64, delta int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		q := c.lines[i].Quantity + delta
		if q < 1 {
			q = 1
		}
		c.lines[i].Quantity = q
		return
	}
}

// RemoveItem deletes the line unconditionally.
func (c *Cart) RemoveItem(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total recomputes from the lines on every call; nothing is cached.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Cart) totalLocked() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return c.Len() == 0
}

// Lines returns a copy; callers cannot mutate the cart through it.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLinesLocked()
}

func (c *Cart) copyLinesLocked() []domain.CartLine {
	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Snapshot captures lines and total atomically for submission.
func (c *Cart) Snapshot() *domain.CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &domain.CartSnapshot{
		Items:      c.copyLinesLocked(),
		Total:      c.totalLocked(),
		Currency:   "NGN",
		CapturedAt: time.Now(),
	}
}
