package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
)

func TestKeyFor(t *testing.T) {
	t.Run("Should fold case and whitespace", func(t *testing.T) {
		a := pricing.KeyFor(model.Product{Model: " iPhone 15 ", Storage: "128GB", Color: "Black"})
		b := pricing.KeyFor(model.Product{Model: "iphone 15", Storage: " 128gb", Color: "BLACK "})
		assert.Equal(t, a, b)
		assert.Equal(t, pricing.VariantKey("iphone 15-128gb-black"), a)
	})

	t.Run("Should keep empty fields in the key", func(t *testing.T) {
		assert.Equal(t, pricing.VariantKey("--"), pricing.KeyFor(model.Product{}))
	})
}

func TestGroupByVariant(t *testing.T) {
	products := []model.Product{
		{ID: "1", Model: "iPhone 15", Storage: "128GB", Color: "Black"},
		{ID: "2", Model: "Galaxy S24", Storage: "256GB", Color: "Gray"},
		{ID: "3", Model: "iphone 15 ", Storage: "128gb", Color: "BLACK"},
		{ID: "4", Model: "Galaxy S24", Storage: "256GB", Color: "Gray"},
	}

	groups := pricing.GroupByVariant(products)

	require.Len(t, groups, 2)

	t.Run("Should order groups by first appearance", func(t *testing.T) {
		assert.Equal(t, pricing.VariantKey("iphone 15-128gb-black"), groups[0].Key)
		assert.Equal(t, pricing.VariantKey("galaxy s24-256gb-gray"), groups[1].Key)
	})

	t.Run("Should preserve in-group input order", func(t *testing.T) {
		require.Len(t, groups[0].Products, 2)
		assert.Equal(t, "1", groups[0].Products[0].ID)
		assert.Equal(t, "3", groups[0].Products[1].ID)
	})

	t.Run("Should flatten back to a 1:1 list", func(t *testing.T) {
		flat := pricing.Flatten(groups)
		require.Len(t, flat, 4)
		assert.Equal(t, []string{"1", "3", "2", "4"}, []string{flat[0].ID, flat[1].ID, flat[2].ID, flat[3].ID})
	})

	t.Run("Should handle empty input", func(t *testing.T) {
		assert.Empty(t, pricing.GroupByVariant(nil))
	})
}
