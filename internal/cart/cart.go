// Package cart implements the per-session reservation cart. Reserving debits
// the shared product's available quantity immediately; there is no separate
// escrow. Updating or removing entries does NOT credit the stock back — that
// is long-standing behavior callers depend on, kept behind a default. The
// WithStockRestore option enables the stricter restore-on-remove mode.
package cart

import (
	"fmt"
	"iter"

	"github.com/pastryshop/backend/internal/entity"
)

type Cart struct {
	items map[*entity.Product]int
	keys  []*entity.Product // insertion order of map keys

	restoreOnRemove bool
}

type Option func(*Cart)

// WithStockRestore makes Remove and Clear credit the reserved quantity back
// to the product. It does not change UpdateQuantity: the old/new delta is
// still not reconciled against stock.
func WithStockRestore() Option {
	return func(c *Cart) { c.restoreOnRemove = true }
}

func New(opts ...Option) *Cart {
	c := &Cart{items: make(map[*entity.Product]int)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reserve adds quantity to the cart entry for p and debits the product's
// stock. Fails with entity.ErrInsufficientStock when quantity exceeds the
// available quantity at call time, leaving everything untouched.
func (c *Cart) Reserve(p *entity.Product, quantity int) (string, error) {
	if quantity > p.Quantity {
		return "", fmt.Errorf("%w pentru produsul: %s. Cantitate disponibila: %d",
			entity.ErrInsufficientStock, p.Name, p.Quantity)
	}
	if _, ok := c.items[p]; !ok {
		c.keys = append(c.keys, p)
	}
	c.items[p] += quantity
	p.Quantity -= quantity
	return fmt.Sprintf("Produs adaugat: %s, Cantitate: %d", p.Name, quantity), nil
}

// UpdateQuantity overwrites the reserved quantity for p. A non-positive
// quantity behaves as Remove. The delta between the old and new reservation
// is not applied to the product's stock.
func (c *Cart) UpdateQuantity(p *entity.Product, newQuantity int) (string, error) {
	if newQuantity <= 0 {
		return c.Remove(p), nil
	}
	if newQuantity > p.Quantity {
		return "", fmt.Errorf("%w: cantitatea pentru %s nu este disponibila, sunt disponibile doar %d bucati",
			entity.ErrInsufficientStock, p.Name, p.Quantity)
	}
	if _, ok := c.items[p]; !ok {
		c.keys = append(c.keys, p)
	}
	c.items[p] = newQuantity
	return fmt.Sprintf("Cantitatea pentru %s a fost actualizata la %d", p.Name, newQuantity), nil
}

// Remove deletes the cart entry. It reports success even when p was never in
// the cart — callers historically rely on the unconditional message.
func (c *Cart) Remove(p *entity.Product) string {
	if qty, ok := c.items[p]; ok {
		if c.restoreOnRemove {
			p.Quantity += qty
		}
		delete(c.items, p)
		c.deleteKey(p)
	}
	return fmt.Sprintf("Produsul %s a fost sters din cos.", p.Name)
}

// Clear empties the cart. A no-op on an empty cart.
func (c *Cart) Clear() {
	if c.restoreOnRemove {
		for p, qty := range c.items {
			p.Quantity += qty
		}
	}
	c.drain()
}

// Drain empties the cart without ever restoring stock, regardless of mode.
// The ledger uses it after a commit: the reservations became purchases.
func (c *Cart) Drain() {
	c.drain()
}

func (c *Cart) drain() {
	clear(c.items)
	c.keys = c.keys[:0]
}

func (c *Cart) deleteKey(p *entity.Product) {
	for i, k := range c.keys {
		if k == p {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			return
		}
	}
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Quantity returns the reserved quantity for p, zero when absent.
func (c *Cart) Quantity(p *entity.Product) int {
	return c.items[p]
}

// Items iterates entries in insertion order.
func (c *Cart) Items() iter.Seq2[*entity.Product, int] {
	return func(yield func(*entity.Product, int) bool) {
		for _, p := range c.keys {
			if !yield(p, c.items[p]) {
				return
			}
		}
	}
}

// Products returns the cart keys in insertion order.
func (c *Cart) Products() []*entity.Product {
	out := make([]*entity.Product, len(c.keys))
	copy(out, c.keys)
	return out
}

// Total is the sum of price times reserved quantity over all entries.
func (c *Cart) Total() float64 {
	var total float64
	for p, qty := range c.items {
		total += p.Price * float64(qty)
	}
	return total
}
