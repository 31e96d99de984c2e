package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pastryshop/backend/internal/entity"
)

const orderTimestampLayout = "2006-01-02 15:04:05"

// Line field labels. The format predates this implementation; readers exist,
// so the labels are fixed.
const (
	fieldOrderDate    = "Data comenzii:"
	fieldProductCount = "Numarul produselor comandate:"
	fieldTotal        = "Suma totala a comenzii:"
	fieldProducts     = "Produsele comandate:"
	fieldStatus       = "Statusul comenzii:"
)

// OrderLog reads and writes committed orders, one comma-separated line per
// order with product names joined by "|".
type OrderLog struct {
	Path string
}

// Save writes all orders, truncating the previous log.
func (l *OrderLog) Save(ctx context.Context, orders []*entity.Order) error {
	f, err := os.Create(l.Path)
	if err != nil {
		return fmt.Errorf("failed to create order log %s: %w", l.Path, err)
	}

	w := bufio.NewWriter(f)
	for _, o := range orders {
		if _, err := w.WriteString(formatOrderLine(o) + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("failed to write order log %s: %w", l.Path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write order log %s: %w", l.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close order log %s: %w", l.Path, err)
	}
	return nil
}

// Load reads the order log. Malformed lines are skipped with a warning; a
// missing file is an empty ledger. Product names resolve against the current
// catalog; unresolved names drop out of the reconstructed order silently.
func (l *OrderLog) Load(ctx context.Context, resolve func(name string) *entity.Product) ([]*entity.Order, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("Order log not found, starting empty", "path", l.Path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open order log %s: %w", l.Path, err)
	}
	defer f.Close()

	var orders []*entity.Order
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		order, err := parseOrderLine(line, resolve)
		if err != nil {
			slog.Warn("Skipping malformed order log line", "path", l.Path, "line", lineNo, "err", err)
			continue
		}
		orders = append(orders, order)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order log %s: %w", l.Path, err)
	}

	slog.Info("Order log loaded", "path", l.Path, "orders", len(orders))
	return orders, nil
}

func formatOrderLine(o *entity.Order) string {
	var sb strings.Builder
	sb.WriteString(fieldOrderDate + o.CreatedAt.Format(orderTimestampLayout))
	sb.WriteString(",")
	sb.WriteString(fieldProductCount + strconv.Itoa(len(o.Products)))
	sb.WriteString(",")
	sb.WriteString(fieldTotal + entity.FormatAmount(o.TotalValue))
	sb.WriteString(",")
	sb.WriteString(fieldProducts + strings.Join(o.ProductNames(), "|"))
	sb.WriteString(",")
	sb.WriteString(fieldStatus + " " + o.Status.String())
	return sb.String()
}

func parseOrderLine(line string, resolve func(name string) *entity.Product) (*entity.Order, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 5 {
		return nil, fmt.Errorf("expected 5 fields, got %d", len(parts))
	}

	createdAt, err := time.Parse(orderTimestampLayout, strings.TrimSpace(strings.TrimPrefix(parts[0], fieldOrderDate)))
	if err != nil {
		return nil, fmt.Errorf("invalid order date: %w", err)
	}
	if _, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(parts[1], fieldProductCount))); err != nil {
		return nil, fmt.Errorf("invalid product count: %w", err)
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(parts[2], fieldTotal)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid order total: %w", err)
	}
	status, err := entity.ParseStatus(strings.TrimSpace(strings.TrimPrefix(parts[4], fieldStatus)))
	if err != nil {
		return nil, err
	}

	var products []*entity.Product
	for _, name := range strings.Split(strings.TrimPrefix(parts[3], fieldProducts), "|") {
		if p := resolve(name); p != nil {
			products = append(products, p)
		}
	}

	return entity.NewOrder(uuid.New().String(), products, total, createdAt, status), nil
}
