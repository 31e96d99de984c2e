package entity

import "time"

// Event is a domain event published after a ledger mutation.
type Event interface {
	EventType() string
}

// OrderCommitted is emitted when a cart is committed into an order.
type OrderCommitted struct {
	OrderID      string    `json:"order_id"`
	ProductNames []string  `json:"product_names"`
	TotalValue   float64   `json:"total_value"`
	CommittedAt  time.Time `json:"committed_at"`
}

func (e OrderCommitted) EventType() string { return "OrderCommitted" }

// OrderStatusChanged is emitted when an order's status is overwritten.
type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

func (e OrderStatusChanged) EventType() string { return "OrderStatusChanged" }
