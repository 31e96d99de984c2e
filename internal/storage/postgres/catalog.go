package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pastryshop/backend/internal/entity"
	"github.com/pastryshop/backend/internal/storage"
)

type catalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a CatalogStore backed by Postgres. Rows keep the
// catalog's insertion order through the position column.
func NewCatalogStore(db *sql.DB) storage.CatalogStore {
	return &catalogStore{db: db}
}

func (s *catalogStore) Load(ctx context.Context) ([]*entity.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, price, available_quantity, date_added, expiry_date, rating, rating_count, purchase_count FROM products ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.Name, &p.Description, &p.Price, &p.Quantity,
			&p.DateAdded, &p.ExpiryDate, &p.Rating, &p.RatingCount, &p.PurchaseCount); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (s *catalogStore) Save(ctx context.Context, products []*entity.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	for _, p := range products {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO products (name, description, price, available_quantity, date_added, expiry_date, rating, rating_count, purchase_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
			p.Name, p.Description, p.Price, p.Quantity, p.DateAdded, p.ExpiryDate, p.Rating, p.RatingCount, p.PurchaseCount,
		)
		if err != nil {
			return fmt.Errorf("failed to save product %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog save: %w", err)
	}
	return nil
}
