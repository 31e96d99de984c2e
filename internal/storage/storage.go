// Package storage defines the persistence contracts the core consumes.
// Two implementations exist: plain files (the canonical formats) and
// postgres (same data, for deployments that already run a database).
//
// Save failures are wrapped I/O errors propagated to the caller, never
// retried here. Load-side parse failures are recovered locally: a malformed
// order-log line is skipped with a warning and never aborts the load.
package storage

import (
	"context"

	"github.com/pastryshop/backend/internal/entity"
)

// CatalogStore persists the product collection. Load and Save round-trip
// every field exactly, including default substitutions for missing optional
// fields.
type CatalogStore interface {
	Load(ctx context.Context) ([]*entity.Product, error)
	Save(ctx context.Context, products []*entity.Product) error
}

// OrderLog persists committed orders. Load resolves product names against
// the current catalog through resolve; names that no longer resolve are
// silently dropped from the reconstructed order (renames and deletions lose
// history — known behavior, kept).
type OrderLog interface {
	Load(ctx context.Context, resolve func(name string) *entity.Product) ([]*entity.Order, error)
	Save(ctx context.Context, orders []*entity.Order) error
}
