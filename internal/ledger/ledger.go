// Package ledger is the append-only collection of committed orders.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pastryshop/backend/internal/entity"
	"github.com/pastryshop/backend/internal/messaging"
)

// Topics the ledger publishes on.
const (
	TopicOrderCommitted     = "orders.committed"
	TopicOrderStatusChanged = "orders.status_changed"
)

// Ledger appends order snapshots created from committed carts. Like the
// catalog it carries no lock; the caller serializes mutations.
type Ledger struct {
	orders    []*entity.Order
	publisher messaging.Publisher
	now       func() time.Time
}

type Option func(*Ledger)

// WithPublisher attaches an event publisher. Without one, commits and status
// changes simply do not emit events.
func WithPublisher(p messaging.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Commit converts the session's cart into an order snapshot: product list =
// cart keys, total = sum(price x quantity), timestamp = now, status =
// IN_PROGRESS. On success it appends the order, bumps every included
// product's purchase counter, empties the cart and marks the session
// committed. The confirmation message is returned alongside the order.
func (l *Ledger) Commit(ctx context.Context, session *CheckoutSession) (*entity.Order, string, error) {
	if session.committed {
		return nil, "", entity.ErrAlreadyCommitted
	}
	c := session.Cart()
	if c.Len() == 0 {
		return nil, "", fmt.Errorf("%w: adauga produse inainte de a trimite comanda", entity.ErrEmptyCart)
	}

	order := entity.NewOrder(
		uuid.New().String(),
		c.Products(),
		c.Total(),
		l.now(),
		entity.StatusInProgress,
	)

	l.orders = append(l.orders, order)
	for _, p := range order.Products {
		p.RecordPurchase()
	}
	c.Drain()
	session.committed = true

	slog.Info("Ledger: order committed",
		"order_id", order.ID,
		"products", len(order.Products),
		"total", order.TotalValue,
	)

	l.publish(ctx, TopicOrderCommitted, order.ID, entity.OrderCommitted{
		OrderID:      order.ID,
		ProductNames: order.ProductNames(),
		TotalValue:   order.TotalValue,
		CommittedAt:  order.CreatedAt,
	})

	return order, "Comanda a fost trimisa cu succes!", nil
}

// SetStatus overwrites the order's status unconditionally. Any status can
// follow any other; stricter transition rules belong in a validation layer
// above the ledger, not here.
func (l *Ledger) SetStatus(ctx context.Context, order *entity.Order, status entity.Status) {
	order.Status = status
	slog.Info("Ledger: order status set", "order_id", order.ID, "status", status.String())

	l.publish(ctx, TopicOrderStatusChanged, order.ID, entity.OrderStatusChanged{
		OrderID:   order.ID,
		Status:    status.String(),
		ChangedAt: l.now(),
	})
}

// All iterates orders in ledger insertion order, lazily and restartably.
func (l *Ledger) All() iter.Seq[*entity.Order] {
	return func(yield func(*entity.Order) bool) {
		for _, o := range l.orders {
			if !yield(o) {
				return
			}
		}
	}
}

func (l *Ledger) Len() int {
	return len(l.orders)
}

// Orders returns a snapshot slice in insertion order.
func (l *Ledger) Orders() []*entity.Order {
	out := make([]*entity.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// FindByID returns the order with the given ID, or nil.
func (l *Ledger) FindByID(id string) *entity.Order {
	for _, o := range l.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Append restores a previously persisted order. Used by the order log on
// reload; it does not touch purchase counters or publish events.
func (l *Ledger) Append(order *entity.Order) {
	l.orders = append(l.orders, order)
}

// publish emits the event when a publisher is configured. A publish failure
// is logged and swallowed: the ledger mutation already happened and the
// event stream is best-effort.
func (l *Ledger) publish(ctx context.Context, topic, key string, event entity.Event) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishEvent(ctx, topic, key, event); err != nil {
		slog.Error("Failed to publish ledger event", "topic", topic, "err", err)
	}
}
