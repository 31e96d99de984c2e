package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pastryshop/backend/internal/entity"
	"github.com/pastryshop/backend/internal/storage"
)

type orderLog struct {
	db *sql.DB
}

// NewOrderLog creates an OrderLog backed by Postgres. Product membership is
// stored as "|"-joined names, the same representation as the file log, and
// resolved by name on load with the same silent-drop semantics.
func NewOrderLog(db *sql.DB) storage.OrderLog {
	return &orderLog{db: db}
}

func (l *orderLog) Load(ctx context.Context, resolve func(name string) *entity.Product) ([]*entity.Order, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT created_at, total_value, product_names, status FROM orders ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var (
			createdAt  time.Time
			total      float64
			names      string
			statusName string
		)
		if err := rows.Scan(&createdAt, &total, &names, &statusName); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		status, err := entity.ParseStatus(statusName)
		if err != nil {
			slog.Warn("Skipping order with unknown status", "status", statusName)
			continue
		}

		var products []*entity.Product
		for _, name := range strings.Split(names, "|") {
			if p := resolve(name); p != nil {
				products = append(products, p)
			}
		}
		orders = append(orders, entity.NewOrder(uuid.New().String(), products, total, createdAt, status))
	}
	return orders, rows.Err()
}

func (l *orderLog) Save(ctx context.Context, orders []*entity.Order) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM orders"); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}

	for _, o := range orders {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO orders (created_at, total_value, product_names, status) VALUES ($1, $2, $3, $4)",
			o.CreatedAt, o.TotalValue, strings.Join(o.ProductNames(), "|"), o.Status.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to save order %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order save: %w", err)
	}
	return nil
}
