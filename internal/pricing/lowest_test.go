package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
)

func groupOf(prices ...int64) []pricing.Group {
	products := make([]model.Product, len(prices))
	for i, p := range prices {
		products[i] = model.Product{PriceCents: p}
	}
	return pricing.GroupByVariant(products)
}

func marks(groups []pricing.Group) []bool {
	var out []bool
	for _, p := range pricing.Flatten(groups) {
		out = append(out, p.IsLowestPrice)
	}
	return out
}

func TestMarkLowest(t *testing.T) {
	t.Run("Should mark the single minimum", func(t *testing.T) {
		groups := groupOf(430000, 435000, 450000)
		pricing.MarkLowest(groups)
		assert.Equal(t, []bool{true, false, false}, marks(groups))
	})

	t.Run("Should mark every price within one centavo of the minimum", func(t *testing.T) {
		groups := groupOf(430000, 430001, 430002)
		pricing.MarkLowest(groups)
		assert.Equal(t, []bool{true, true, false}, marks(groups))
	})

	t.Run("Should exclude zero prices from the minimum but keep the rows", func(t *testing.T) {
		groups := groupOf(0, 500000, 480000)
		pricing.MarkLowest(groups)
		assert.Equal(t, []bool{false, false, true}, marks(groups))
	})

	t.Run("Should mark nothing when every price is zero", func(t *testing.T) {
		groups := groupOf(0, 0, 0)
		pricing.MarkLowest(groups)
		assert.Equal(t, []bool{false, false, false}, marks(groups))
	})

	t.Run("Should mark a single-member group", func(t *testing.T) {
		groups := groupOf(100)
		pricing.MarkLowest(groups)
		assert.Equal(t, []bool{true}, marks(groups))
	})
}

func TestLowestPriceCents(t *testing.T) {
	groups := groupOf(0, 250000, 199900)
	assert.Equal(t, int64(199900), pricing.LowestPriceCents(groups[0]))

	empty := groupOf(0)
	assert.Zero(t, pricing.LowestPriceCents(empty[0]))
}
