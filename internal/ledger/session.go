package ledger

import (
	"github.com/google/uuid"

	"github.com/pastryshop/backend/internal/cart"
)

// CheckoutSession ties a cart to a one-shot commit flag. A session that has
// committed once cannot commit again until it is reopened; reopening is what
// the UI does when the user returns to the cart view.
type CheckoutSession struct {
	id        string
	cart      *cart.Cart
	committed bool
}

func NewCheckoutSession(c *cart.Cart) *CheckoutSession {
	return &CheckoutSession{id: uuid.New().String(), cart: c}
}

func (s *CheckoutSession) ID() string {
	return s.id
}

func (s *CheckoutSession) Cart() *cart.Cart {
	return s.cart
}

func (s *CheckoutSession) Committed() bool {
	return s.committed
}

// Reopen clears the one-shot flag so the session may commit again.
func (s *CheckoutSession) Reopen() {
	s.committed = false
}
