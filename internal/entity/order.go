package entity

import (
	"strings"
	"time"
)

// Order is an immutable snapshot of a committed cart. Products, total value
// and timestamp are fixed at commit time; only Status may change afterwards,
// and only through the ledger.
type Order struct {
	ID         string
	Products   []*Product
	TotalValue float64
	CreatedAt  time.Time
	Status     Status
}

// NewOrder builds an order snapshot. Used by the ledger on commit and by the
// order log when reconstructing history.
func NewOrder(id string, products []*Product, total float64, createdAt time.Time, status Status) *Order {
	return &Order{
		ID:         id,
		Products:   products,
		TotalValue: total,
		CreatedAt:  createdAt,
		Status:     status,
	}
}

// ProductNames returns the names of the included products, in order.
func (o *Order) ProductNames() []string {
	names := make([]string, len(o.Products))
	for i, p := range o.Products {
		names[i] = p.Name
	}
	return names
}

// Details renders a human-readable description of the order.
func (o *Order) Details() string {
	var b strings.Builder
	b.WriteString("Order Date: " + o.CreatedAt.Format("2006-01-02 15:04:05") + "\n")
	b.WriteString("Total Value: " + FormatAmount(o.TotalValue) + "\n")
	b.WriteString("Products: ")
	for _, p := range o.Products {
		b.WriteString(p.Name + " (Price: " + FormatAmount(p.Price) + "), ")
	}
	return b.String()
}
