package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastryshop/backend/internal/entity"
)

func TestAddRemoveAndListOrder(t *testing.T) {
	a := &entity.Product{Name: "Tort"}
	b := &entity.Product{Name: "Ecler"}
	d := &entity.Product{Name: "Cozonac"}

	c := New()
	c.Add(a)
	c.Add(b)
	c.Add(d)
	require.Equal(t, 3, c.Len())

	var names []string
	for p := range c.List() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Tort", "Ecler", "Cozonac"}, names)

	assert.True(t, c.Remove(b))
	assert.False(t, c.Remove(b))
	assert.Equal(t, 2, c.Len())

	names = names[:0]
	for p := range c.List() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Tort", "Cozonac"}, names)
}

func TestListIsRestartable(t *testing.T) {
	c := New(&entity.Product{Name: "A"}, &entity.Product{Name: "B"})

	seq := c.List()
	first := 0
	for range seq {
		first++
		break // abandon mid-iteration
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestFindByNameExactMatch(t *testing.T) {
	tort := &entity.Product{Name: "Tort"}
	c := New(tort)

	assert.Same(t, tort, c.FindByName("Tort"))
	assert.Nil(t, c.FindByName("tort"))
	assert.Nil(t, c.FindByName("Tort "))
}

func TestSubmitRatingAverages(t *testing.T) {
	p := &entity.Product{Name: "Tort", Rating: 4.0, RatingCount: 2}
	c := New(p)

	require.NoError(t, c.SubmitRating(p, 5))
	assert.InDelta(t, (4.0*2+5)/3, p.Rating, 1e-9)
	assert.Equal(t, 3, p.RatingCount)
}

func TestSubmitRatingFirstScore(t *testing.T) {
	p := &entity.Product{Name: "Ecler"}
	c := New(p)

	require.NoError(t, c.SubmitRating(p, 3))
	assert.InDelta(t, 3.0, p.Rating, 1e-9)
	assert.Equal(t, 1, p.RatingCount)
}

func TestSubmitRatingAcceptsAnyPositiveScore(t *testing.T) {
	// Range enforcement lives at the HTTP edge; the catalog only rejects
	// non-positive scores.
	p := &entity.Product{Name: "Tort"}
	c := New(p)

	require.NoError(t, c.SubmitRating(p, 7))
	assert.InDelta(t, 7.0, p.Rating, 1e-9)

	err := c.SubmitRating(p, 0)
	assert.Error(t, err)
	err = c.SubmitRating(p, -1)
	assert.Error(t, err)
	assert.Equal(t, 1, p.RatingCount)
}
