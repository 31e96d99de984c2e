// Package catalog holds the in-memory product collection. It is the source
// of truth for stock, ratings and purchase counters; carts and orders mutate
// products through the shared pointers it hands out.
package catalog

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/pastryshop/backend/internal/entity"
)

// Catalog is an ordered collection of products. It has no internal locking:
// the caller is expected to serialize mutations (single-writer model).
type Catalog struct {
	products []*entity.Product
}

func New(products ...*entity.Product) *Catalog {
	return &Catalog{products: products}
}

// Add appends a product, preserving insertion order.
func (c *Catalog) Add(p *entity.Product) {
	c.products = append(c.products, p)
	slog.Info("Catalog: product added", "name", p.Name, "quantity", p.Quantity)
}

// Remove deletes the product by identity. Removing a product does not touch
// historical orders that reference it, but it will no longer resolve by name
// when an order log is reloaded.
func (c *Catalog) Remove(p *entity.Product) bool {
	for i, existing := range c.products {
		if existing == p {
			c.products = append(c.products[:i], c.products[i+1:]...)
			slog.Info("Catalog: product removed", "name", p.Name)
			return true
		}
	}
	return false
}

// List iterates products in insertion order. The sequence is lazy and
// restartable; mutating the catalog mid-iteration is the caller's problem,
// same as with any slice walk.
func (c *Catalog) List() iter.Seq[*entity.Product] {
	return func(yield func(*entity.Product) bool) {
		for _, p := range c.products {
			if !yield(p) {
				return
			}
		}
	}
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns the backing order as a snapshot slice.
func (c *Catalog) Products() []*entity.Product {
	out := make([]*entity.Product, len(c.products))
	copy(out, c.products)
	return out
}

// FindByName returns the first product with exactly that name, or nil.
// Order-log reconstruction depends on this exact-match lookup.
func (c *Catalog) FindByName(name string) *entity.Product {
	for _, p := range c.products {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// SubmitRating folds a new score into the product's running average:
//
//	new = (rating*count + score) / (count + 1)
//
// and increments the rating count by exactly one. The 1..5 range is a UI
// constraint enforced at the HTTP edge; the catalog itself accepts any
// positive score, so callers that bypass the edge get exactly what they ask
// for.
func (c *Catalog) SubmitRating(p *entity.Product, score float64) error {
	if score <= 0 {
		return fmt.Errorf("invalid rating score %v: must be positive", score)
	}
	total := p.Rating * float64(p.RatingCount)
	p.RatingCount++
	p.Rating = (total + score) / float64(p.RatingCount)
	slog.Info("Catalog: rating submitted", "name", p.Name, "score", score, "rating", p.Rating, "count", p.RatingCount)
	return nil
}
