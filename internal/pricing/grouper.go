package pricing

import (
	"strings"

	"github.com/lojatech/precifica/internal/model"
)

// VariantKey identifies a sellable variant independent of supplier:
// lowercase(trim(model)) + "-" + lowercase(trim(storage)) + "-" +
// lowercase(trim(color)). Empty fields still participate in the key, so rows
// with a missing model form a degenerate group instead of being dropped.
type VariantKey string

// KeyFor computes the variant key for a product row.
func KeyFor(p model.Product) VariantKey {
	fold := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return VariantKey(fold(p.Model) + "-" + fold(p.Storage) + "-" + fold(p.Color))
}

// Group is one equivalence class of quotes for the same variant.
type Group struct {
	Key      VariantKey
	Products []model.Product
}

// GroupByVariant partitions products into variant groups. Group order
// follows the first appearance of each key and rows keep their relative
// input order inside a group (stable partition). Grouping never fails.
func GroupByVariant(products []model.Product) []Group {
	index := make(map[VariantKey]int, len(products))
	groups := make([]Group, 0, len(products))

	for _, p := range products {
		key := KeyFor(p)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	return groups
}

// Flatten concatenates groups back into a single list, preserving group
// order and in-group order. The result is 1:1 with the grouped input.
func Flatten(groups []Group) []model.Product {
	n := 0
	for _, g := range groups {
		n += len(g.Products)
	}

	out := make([]model.Product, 0, n)
	for _, g := range groups {
		out = append(out, g.Products...)
	}
	return out
}
