// Package report derives the analytical reports from the catalog and the
// order ledger. The engine is stateless read-side code: it never mutates
// products or orders, and every report is a function of (products, orders)
// plus the current date.
package report

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pastryshop/backend/internal/catalog"
	"github.com/pastryshop/backend/internal/entity"
	"github.com/pastryshop/backend/internal/ledger"
)

const (
	timestampLayout = "2006-01-02 15:04:05"

	// Products with less available quantity than this show up in the
	// general stock summary.
	lowStockThreshold = 5

	// Aggregation window, in days, for the recently-added and near-expiry
	// reports.
	windowDays = 30
)

type Engine struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	sinks   SinkOpener
	now     func() time.Time
}

type Option func(*Engine)

// WithClock overrides the engine's notion of "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(c *catalog.Catalog, l *ledger.Ledger, sinks SinkOpener, opts ...Option) *Engine {
	e := &Engine{catalog: c, ledger: l, sinks: sinks, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// write opens the named sink, runs body against a buffered writer and closes
// everything, reporting the first failure.
func (e *Engine) write(name string, body func(w *bufio.Writer) error) error {
	sink, err := e.sinks.Open(name)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(sink)

	bodyErr := body(w)
	if flushErr := w.Flush(); bodyErr == nil {
		bodyErr = flushErr
	}
	if closeErr := sink.Close(); bodyErr == nil {
		bodyErr = closeErr
	}
	if bodyErr != nil {
		return fmt.Errorf("failed to write report %s: %w", name, bodyErr)
	}

	slog.Info("Report generated", "report", name)
	return nil
}

// TotalSales reports the sum of all order totals and the order count.
func (e *Engine) TotalSales(name string) error {
	return e.write(name, func(w *bufio.Writer) error {
		var total float64
		for o := range e.ledger.All() {
			total += o.TotalValue
		}
		fmt.Fprint(w, "Raport Total Vanzari\n")
		fmt.Fprint(w, "========================\n")
		fmt.Fprintf(w, "Total Vanzari: %s lei\n", entity.FormatAmount(total))
		fmt.Fprintf(w, "Numar Total Comenzi: %d\n", e.ledger.Len())
		return nil
	})
}

// StockListing lists every product that still has stock, in catalog order.
func (e *Engine) StockListing(name string) error {
	return e.write(name, func(w *bufio.Writer) error {
		fmt.Fprint(w, "Raport Produse pe Stoc\n")
		fmt.Fprint(w, "========================\n")
		for p := range e.catalog.List() {
			if p.Quantity > 0 {
				fmt.Fprintf(w, "Produs: %s, Cantitate Disponibila: %d\n", p.Name, p.Quantity)
			}
		}
		return nil
	})
}

// RecentlyAdded lists products whose DateAdded parses and falls strictly
// inside the last 30 days. An unparsable date produces an explicit invalid
// line rather than a silent skip.
func (e *Engine) RecentlyAdded(name string) error {
	today := e.dateToday()
	cutoff := today.AddDate(0, 0, -windowDays)

	return e.write(name, func(w *bufio.Writer) error {
		fmt.Fprint(w, "Raport Produse Adaugate Recent\n")
		fmt.Fprint(w, "================================\n")
		for p := range e.catalog.List() {
			added, err := time.Parse(entity.DateLayout, p.DateAdded)
			if err != nil {
				fmt.Fprintf(w, "Produs: %s, Data Adaugare invalida: %s\n", p.Name, p.DateAdded)
				continue
			}
			if added.After(cutoff) {
				fmt.Fprintf(w, "Produs: %s, Data Adaugare: %s\n", p.Name, p.DateAdded)
			}
		}
		return nil
	})
}

// NearExpiry lists products expiring strictly within the next 30 days.
// Already-expired products and products expiring exactly 30 days out are
// both excluded. Empty or unparsable expiry dates get an invalid line.
func (e *Engine) NearExpiry(name string) error {
	today := e.dateToday()
	limit := today.AddDate(0, 0, windowDays)

	return e.write(name, func(w *bufio.Writer) error {
		fmt.Fprint(w, "Raport Produse Aproape Expirate\n")
		fmt.Fprint(w, "================================\n")
		for p := range e.catalog.List() {
			if p.ExpiryDate == "" {
				fmt.Fprintf(w, "Produs: %s, Data Expirare invalida: %s\n", p.Name, p.ExpiryDate)
				continue
			}
			expiry, err := time.Parse(entity.DateLayout, p.ExpiryDate)
			if err != nil {
				fmt.Fprintf(w, "Produs: %s, Data Expirare invalida: %s\n", p.Name, p.ExpiryDate)
				continue
			}
			if expiry.Before(limit) && expiry.After(today) {
				fmt.Fprintf(w, "Produs: %s, Data Expirare: %s\n", p.Name, p.ExpiryDate)
			}
		}
		return nil
	})
}

// StockSummary reports the product count, the raw sum of unit prices and the
// products under the low-stock threshold. The "stock value" is the plain sum
// of prices, not price times quantity; downstream consumers of the file read
// it that way, so it stays.
func (e *Engine) StockSummary(name string) error {
	return e.write(name, func(w *bufio.Writer) error {
		var priceSum float64
		for p := range e.catalog.List() {
			priceSum += p.Price
		}

		fmt.Fprint(w, "Raport General al Stocului\n")
		fmt.Fprint(w, "=============================\n")
		fmt.Fprintf(w, "Numar Total de Produse: %d\n", e.catalog.Len())
		fmt.Fprintf(w, "Valoare Totala a Stocului: %s\n", entity.FormatAmount(priceSum))
		fmt.Fprint(w, "Produse Sub Limita Minima de Stoc:\n")
		for p := range e.catalog.List() {
			if p.Quantity < lowStockThreshold {
				fmt.Fprintf(w, "Produs: %s, Cantitate Disponibila: %d\n", p.Name, p.Quantity)
			}
		}
		return nil
	})
}

// SalesTrend groups orders by calendar date. Each order contributes the sum
// of unit prices over its product list — one price per list occurrence,
// ignoring reserved quantities. Dates are emitted in encounter order.
func (e *Engine) SalesTrend(name string) error {
	perDay := make(map[string]float64)
	var days []string

	for o := range e.ledger.All() {
		day := o.CreatedAt.Format(entity.DateLayout)
		var orderSum float64
		for _, p := range o.Products {
			orderSum += p.Price
		}
		if _, seen := perDay[day]; !seen {
			days = append(days, day)
		}
		perDay[day] += orderSum
	}

	return e.write(name, func(w *bufio.Writer) error {
		fmt.Fprint(w, "Raport Tendinte in Vanzari\n")
		fmt.Fprint(w, "===========================\n")
		for _, day := range days {
			fmt.Fprintf(w, "Data: %s, Vanzari: %s\n", day, entity.FormatAmount(perDay[day]))
		}
		return nil
	})
}

// RatingMatrix prints one line per product with its rating value and rating
// count, going through an intermediate row-major two-column table.
func (e *Engine) RatingMatrix(name string) error {
	products := e.catalog.Products()

	matrix := make([][2]float64, len(products))
	for i, p := range products {
		matrix[i][0] = p.Rating
		matrix[i][1] = float64(p.RatingCount)
	}

	return e.write(name, func(w *bufio.Writer) error {
		fmt.Fprint(w, "Raport Ratinguri Produse (Matrice)\n")
		fmt.Fprint(w, "====================================\n")
		for i := range matrix {
			fmt.Fprintf(w, "Produs: %s, Rating: %s, Ratinguri: %s\n",
				products[i].Name,
				entity.FormatAmount(matrix[i][0]),
				entity.FormatAmount(matrix[i][1]),
			)
		}
		return nil
	})
}

// CompletedOrders writes the report for COMPLETED orders and also returns
// the filtered slice to the caller.
func (e *Engine) CompletedOrders(name string) ([]*entity.Order, error) {
	var completed []*entity.Order
	for o := range e.ledger.All() {
		if o.Status == entity.StatusCompleted {
			completed = append(completed, o)
		}
	}

	err := e.write(name, func(w *bufio.Writer) error {
		fmt.Fprint(w, "Raport Comenzi Finalizate\n")
		fmt.Fprint(w, "========================\n\n")

		var total float64
		for _, o := range completed {
			total += o.TotalValue
			fmt.Fprintf(w, "Comanda: %s\n", strings.Join(o.ProductNames(), ", "))
			fmt.Fprintf(w, "Data: %s\n", o.CreatedAt.Format(timestampLayout))
			fmt.Fprintf(w, "Valoare: %.2f lei\n", o.TotalValue)
			fmt.Fprint(w, "---------------------\n")
		}

		fmt.Fprintf(w, "\nTotal Comenzi Finalizate: %d\n", len(completed))
		fmt.Fprintf(w, "Valoare Totala: %.2f lei\n", total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// OrderFrequency builds a 31x24 (day-of-month x hour) count matrix over all
// order timestamps. Every day prints a header; only hours with a non-zero
// count print a line, so a day without orders is just a header.
func (e *Engine) OrderFrequency(name string) error {
	var matrix [31][24]int
	for o := range e.ledger.All() {
		matrix[o.CreatedAt.Day()-1][o.CreatedAt.Hour()]++
	}

	return e.write(name, func(w *bufio.Writer) error {
		fmt.Fprint(w, "Raport Frecventa Comenzi pe Zilele Calendaristice si Ore\n")
		fmt.Fprint(w, "========================================================\n\n")
		for day := 0; day < 31; day++ {
			fmt.Fprintf(w, "Ziua %d:\n", day+1)
			for hour := 0; hour < 24; hour++ {
				if matrix[day][hour] > 0 {
					fmt.Fprintf(w, "Ora %02d:00 - %d comenzi\n", hour, matrix[day][hour])
				}
			}
			fmt.Fprint(w, "---------------------\n")
		}
		return nil
	})
}

// dateToday truncates the clock to a calendar date so window comparisons are
// strict day comparisons.
func (e *Engine) dateToday() time.Time {
	y, m, d := e.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
