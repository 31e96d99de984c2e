// Package postgres persists the catalog and order log in a database,
// mirroring the file formats field for field so the two backends are
// interchangeable.
package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("Database connected and migrated")
	return db, nil
}

func migrateDB(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			position SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			available_quantity INT NOT NULL DEFAULT 0,
			date_added TEXT NOT NULL DEFAULT '',
			expiry_date TEXT NOT NULL DEFAULT '',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_count INT NOT NULL DEFAULT 0,
			purchase_count INT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS orders (
			position SERIAL PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			total_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			product_names TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'IN_PROGRESS'
		);
	`)
	return err
}
