package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/pastryshop/backend/internal/entity"
)

const (
	selectProducts = "SELECT name, description, price, available_quantity, date_added, expiry_date, rating, rating_count, purchase_count FROM products ORDER BY position"
	insertProduct  = "INSERT INTO products (name, description, price, available_quantity, date_added, expiry_date, rating, rating_count, purchase_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)"
	selectOrders   = "SELECT created_at, total_value, product_names, status FROM orders ORDER BY position"
	insertOrder    = "INSERT INTO orders (created_at, total_value, product_names, status) VALUES ($1, $2, $3, $4)"
)

func TestCatalogStoreLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"name", "description", "price", "available_quantity",
		"date_added", "expiry_date", "rating", "rating_count", "purchase_count",
	}).
		AddRow("Tort", "Tort de ciocolata", 150.0, 10, "2024-05-20", "2024-06-20", 4.5, 12, 3).
		AddRow("Ecler", "", 7.5, 20, "", "", 0.0, 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta(selectProducts)).WillReturnRows(rows)

	store := NewCatalogStore(db)
	products, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Tort" || products[0].Quantity != 10 || products[0].RatingCount != 12 {
		t.Errorf("unexpected first product: %+v", products[0])
	}
	if products[1].Name != "Ecler" || products[1].Price != 7.5 {
		t.Errorf("unexpected second product: %+v", products[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCatalogStoreSaveReplacesAllRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(insertProduct)).
		WithArgs("Tort", "", 150.0, 10, "2024-05-20", "2024-06-20", 4.5, 12, 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertProduct)).
		WithArgs("Ecler", "", 7.5, 20, "", "", 0.0, 0, 0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	store := NewCatalogStore(db)
	err = store.Save(context.Background(), []*entity.Product{
		{Name: "Tort", Price: 150, Quantity: 10, DateAdded: "2024-05-20",
			ExpiryDate: "2024-06-20", Rating: 4.5, RatingCount: 12, PurchaseCount: 3},
		{Name: "Ecler", Price: 7.5, Quantity: 20},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCatalogStoreSaveRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertProduct)).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	store := NewCatalogStore(db)
	err = store.Save(context.Background(), []*entity.Product{{Name: "Tort"}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOrderLogLoadResolvesAndSkips(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	createdAt := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"created_at", "total_value", "product_names", "status"}).
		AddRow(createdAt, 157.5, "Tort|Disparut", "IN_PROGRESS").
		AddRow(createdAt, 50.0, "Tort", "EXPEDIATA").
		AddRow(createdAt, 10.0, "Tort", "NOT_A_STATUS")
	mock.ExpectQuery(regexp.QuoteMeta(selectOrders)).WillReturnRows(rows)

	tort := &entity.Product{Name: "Tort"}
	resolve := func(name string) *entity.Product {
		if name == "Tort" {
			return tort
		}
		return nil
	}

	log := NewOrderLog(db)
	orders, err := log.Load(context.Background(), resolve)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Unknown status row dropped; unresolved name dropped from the order.
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if len(orders[0].Products) != 1 || orders[0].Products[0] != tort {
		t.Errorf("unexpected products on first order: %+v", orders[0].Products)
	}
	if orders[0].TotalValue != 157.5 {
		t.Errorf("expected recorded total 157.5, got %v", orders[0].TotalValue)
	}
	if orders[1].Status != entity.StatusShipped {
		t.Errorf("expected legacy EXPEDIATA to parse as SHIPPED, got %v", orders[1].Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOrderLogSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	createdAt := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertOrder)).
		WithArgs(createdAt, 157.5, "Tort|Ecler", "IN_PROGRESS").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tort := &entity.Product{Name: "Tort"}
	ecler := &entity.Product{Name: "Ecler"}
	order := entity.NewOrder("o1", []*entity.Product{tort, ecler}, 157.5, createdAt, entity.StatusInProgress)

	log := NewOrderLog(db)
	if err := log.Save(context.Background(), []*entity.Order{order}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
