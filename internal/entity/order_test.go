package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderDetails(t *testing.T) {
	tort := &Product{Name: "Tort", Price: 50}
	ecler := &Product{Name: "Ecler", Price: 7.5}
	createdAt := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)

	o := NewOrder("o1", []*Product{tort, ecler}, 150, createdAt, StatusInProgress)

	details := o.Details()
	assert.Contains(t, details, "Order Date: 2024-06-01 14:30:00")
	assert.Contains(t, details, "Total Value: 150")
	assert.Contains(t, details, "Tort (Price: 50)")
	assert.Contains(t, details, "Ecler (Price: 7.5)")

	assert.Equal(t, []string{"Tort", "Ecler"}, o.ProductNames())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "150", FormatAmount(150))
	assert.Equal(t, "150.5", FormatAmount(150.5))
	assert.Equal(t, "0", FormatAmount(0))
}
