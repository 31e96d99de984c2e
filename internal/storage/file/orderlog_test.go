package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastryshop/backend/internal/entity"
)

func resolver(products ...*entity.Product) func(string) *entity.Product {
	return func(name string) *entity.Product {
		for _, p := range products {
			if p.Name == name {
				return p
			}
		}
		return nil
	}
}

func TestOrderLogLineFormat(t *testing.T) {
	tort := &entity.Product{Name: "Tort", Price: 50}
	ecler := &entity.Product{Name: "Ecler", Price: 7.5}
	o := entity.NewOrder("o1", []*entity.Product{tort, ecler}, 157.5,
		time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC), entity.StatusInProgress)

	line := formatOrderLine(o)
	assert.Equal(t,
		"Data comenzii:2024-06-01 14:30:00,"+
			"Numarul produselor comandate:2,"+
			"Suma totala a comenzii:157.5,"+
			"Produsele comandate:Tort|Ecler,"+
			"Statusul comenzii: IN_PROGRESS",
		line)
}

func TestOrderLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	log := &OrderLog{Path: path}

	tort := &entity.Product{Name: "Tort", Price: 50}
	ecler := &entity.Product{Name: "Ecler", Price: 7.5}
	in := []*entity.Order{
		entity.NewOrder("o1", []*entity.Product{tort, ecler}, 157.5,
			time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC), entity.StatusInProgress),
		entity.NewOrder("o2", []*entity.Product{tort}, 50,
			time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC), entity.StatusCompleted),
	}
	require.NoError(t, log.Save(context.Background(), in))

	out, err := log.Load(context.Background(), resolver(tort, ecler))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, []*entity.Product{tort, ecler}, out[0].Products)
	assert.InDelta(t, 157.5, out[0].TotalValue, 1e-9)
	assert.Equal(t, in[0].CreatedAt, out[0].CreatedAt)
	assert.Equal(t, entity.StatusInProgress, out[0].Status)
	assert.Equal(t, entity.StatusCompleted, out[1].Status)

	// Reconstructed orders get fresh identities.
	assert.NotEqual(t, "o1", out[0].ID)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}

func TestOrderLogMissingFileIsEmpty(t *testing.T) {
	log := &OrderLog{Path: filepath.Join(t.TempDir(), "nope.txt")}

	out, err := log.Load(context.Background(), resolver())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOrderLogSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	content := strings.Join([]string{
		"Data comenzii:2024-06-01 14:30:00,Numarul produselor comandate:1,Suma totala a comenzii:50,Produsele comandate:Tort,Statusul comenzii: SHIPPED",
		"garbage line without fields",
		"Data comenzii:not-a-date,Numarul produselor comandate:1,Suma totala a comenzii:50,Produsele comandate:Tort,Statusul comenzii: SHIPPED",
		"",
		"Data comenzii:2024-06-02 09:00:00,Numarul produselor comandate:1,Suma totala a comenzii:50,Produsele comandate:Tort,Statusul comenzii: UNKNOWN_STATUS",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tort := &entity.Product{Name: "Tort", Price: 50}
	log := &OrderLog{Path: path}
	out, err := log.Load(context.Background(), resolver(tort))
	require.NoError(t, err)

	// Only the first line survives; the rest are skipped, never fatal.
	require.Len(t, out, 1)
	assert.Equal(t, entity.StatusShipped, out[0].Status)
}

func TestOrderLogAcceptsLegacyStatusNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	content := "Data comenzii:2024-06-01 14:30:00,Numarul produselor comandate:1,Suma totala a comenzii:50,Produsele comandate:Tort,Statusul comenzii: EXPEDIATA\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tort := &entity.Product{Name: "Tort"}
	log := &OrderLog{Path: path}
	out, err := log.Load(context.Background(), resolver(tort))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entity.StatusShipped, out[0].Status)
}

func TestOrderLogDropsUnresolvedNamesSilently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	content := "Data comenzii:2024-06-01 14:30:00,Numarul produselor comandate:2,Suma totala a comenzii:57.5,Produsele comandate:Tort|Disparut,Statusul comenzii: IN_PROGRESS\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tort := &entity.Product{Name: "Tort"}
	log := &OrderLog{Path: path}
	out, err := log.Load(context.Background(), resolver(tort))
	require.NoError(t, err)
	require.Len(t, out, 1)

	// "Disparut" no longer resolves: the order keeps its recorded total but
	// only the surviving product.
	assert.Equal(t, []*entity.Product{tort}, out[0].Products)
	assert.InDelta(t, 57.5, out[0].TotalValue, 1e-9)
}
