// Package file implements the canonical on-disk formats: a JSON catalog
// store and a line-oriented order log.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pastryshop/backend/internal/entity"
)

// CatalogStore reads and writes the product catalog as a JSON array.
type CatalogStore struct {
	Path string
}

// productRecord mirrors the stored field set. Optional fields default when
// absent (dateAdded/expiryDate to "", rating to 0, purchaseCount to 0);
// ratingCount is required, so it is a pointer to tell "missing" from zero.
type productRecord struct {
	Price             float64 `json:"price"`
	Description       string  `json:"description"`
	AvailableQuantity int     `json:"availableQuantity"`
	Name              string  `json:"name"`
	DateAdded         string  `json:"dateAdded"`
	ExpiryDate        string  `json:"expiryDate"`
	Rating            float64 `json:"rating"`
	PurchaseCount     int     `json:"purchaseCount"`
	RatingCount       *int    `json:"ratingCount"`
}

// Load reads the catalog. A missing file is an empty catalog, not an error.
func (s *CatalogStore) Load(ctx context.Context) ([]*entity.Product, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("Catalog file not found, starting empty", "path", s.Path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog file %s: %w", s.Path, err)
	}

	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", s.Path, err)
	}

	products := make([]*entity.Product, 0, len(records))
	for i, rec := range records {
		if rec.RatingCount == nil {
			return nil, fmt.Errorf("catalog record %d (%q): missing required field ratingCount", i, rec.Name)
		}
		products = append(products, &entity.Product{
			Name:          rec.Name,
			Description:   rec.Description,
			Price:         rec.Price,
			Quantity:      rec.AvailableQuantity,
			DateAdded:     rec.DateAdded,
			ExpiryDate:    rec.ExpiryDate,
			Rating:        rec.Rating,
			RatingCount:   *rec.RatingCount,
			PurchaseCount: rec.PurchaseCount,
		})
	}

	slog.Info("Catalog loaded", "path", s.Path, "products", len(products))
	return products, nil
}

// Save writes the full catalog, field for field.
func (s *CatalogStore) Save(ctx context.Context, products []*entity.Product) error {
	records := make([]productRecord, len(products))
	for i, p := range products {
		count := p.RatingCount
		records[i] = productRecord{
			Price:             p.Price,
			Description:       p.Description,
			AvailableQuantity: p.Quantity,
			Name:              p.Name,
			DateAdded:         p.DateAdded,
			ExpiryDate:        p.ExpiryDate,
			Rating:            p.Rating,
			PurchaseCount:     p.PurchaseCount,
			RatingCount:       &count,
		}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file %s: %w", s.Path, err)
	}
	return nil
}
