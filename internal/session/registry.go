// Package session tracks checkout sessions by ID so HTTP requests can find
// their cart again. Carts are ephemeral: they live only as long as the
// process and are never persisted.
package session

import (
	"sync"

	"github.com/pastryshop/backend/internal/cart"
	"github.com/pastryshop/backend/internal/ledger"
)

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*ledger.CheckoutSession
	cartOpts []cart.Option
}

func NewRegistry(cartOpts ...cart.Option) *Registry {
	return &Registry{
		sessions: make(map[string]*ledger.CheckoutSession),
		cartOpts: cartOpts,
	}
}

// Get returns the session for id, creating one with a fresh cart on first
// use.
func (r *Registry) Get(id string) *ledger.CheckoutSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := ledger.NewCheckoutSession(cart.New(r.cartOpts...))
	r.sessions[id] = s
	return s
}
