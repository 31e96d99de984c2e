package entity

import "errors"

// Recoverable domain failures. All of them are surfaced to the caller with a
// descriptive message and leave state untouched.
var (
	// ErrInsufficientStock is returned when a reservation or quantity update
	// asks for more than the product's available quantity.
	ErrInsufficientStock = errors.New("stoc insuficient")

	// ErrEmptyCart is returned when committing a cart with no entries.
	ErrEmptyCart = errors.New("cosul este gol")

	// ErrAlreadyCommitted is returned when a checkout session tries to commit
	// a second time. The flag is reset only by reopening the session.
	ErrAlreadyCommitted = errors.New("comanda a fost deja trimisa")
)
