package pricing

import (
	"math"
	"strings"

	"github.com/lojatech/precifica/internal/model"
)

// Resolution is the outcome of resolving a sale price for one product.
type Resolution struct {
	MarginApplied   float64
	SalesPriceCents int64
	Source          model.MarginSource // empty when no rule matched
}

// ResolveSalePrice applies the margin configuration to one product quote.
// Precedence is strict: product-specific rule, then category rule, then the
// global rule. With no rule at any level the sale price passes through equal
// to the base price and the source stays empty; that is a normal outcome,
// not an error.
func ResolveSalePrice(p model.Product, cfg model.MarginConfig) Resolution {
	if rule, ok := cfg.ByProduct[strings.TrimSpace(p.ID)]; ok {
		return resolutionFor(p.PriceCents, rule.Percentage, model.MarginSourceProduct)
	}

	if rule, ok := cfg.ByCategory[FoldCategory(p.Category)]; ok {
		return resolutionFor(p.PriceCents, rule.Percentage, model.MarginSourceCategory)
	}

	if cfg.Global != nil {
		return resolutionFor(p.PriceCents, cfg.Global.Percentage, model.MarginSourceGlobal)
	}

	return Resolution{SalesPriceCents: p.PriceCents}
}

func resolutionFor(baseCents int64, pct float64, source model.MarginSource) Resolution {
	return Resolution{
		MarginApplied:   pct,
		SalesPriceCents: applyMarginCents(baseCents, pct),
		Source:          source,
	}
}

// applyMarginCents computes base * (1 + pct/100) on integer centavos,
// rounding to the nearest centavo.
func applyMarginCents(baseCents int64, pct float64) int64 {
	return int64(math.Round(float64(baseCents) * (1 + pct/100)))
}

// FoldCategory normalizes a category name for rule lookup. Stored rules and
// product rows both go through this fold, so "iPhone" and "iphone " match.
func FoldCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Summary aggregates a batch calculation. AverageMargin is the mean of
// MarginApplied over products that actually resolved a rule; rows without a
// configured margin are excluded rather than counted as zero, so an
// unconfigured catalog reports 0 calculated margins instead of a misleading
// "0% average".
type Summary struct {
	TotalCalculated int
	AverageMargin   float64
}

// CalculatePrices annotates every product with its margin resolution and
// returns the batch summary. The returned slice is a fresh copy, 1:1 and
// order-preserving with the input.
func CalculatePrices(products []model.Product, cfg model.MarginConfig) ([]model.Product, Summary) {
	out := make([]model.Product, len(products))

	var (
		marginSum   float64
		marginCount int
	)
	for i, p := range products {
		res := ResolveSalePrice(p, cfg)
		p.MarginApplied = res.MarginApplied
		p.SalesPriceCents = res.SalesPriceCents
		p.MarginSource = res.Source
		out[i] = p

		if res.Source != "" {
			marginSum += res.MarginApplied
			marginCount++
		}
	}

	summary := Summary{TotalCalculated: len(out)}
	if marginCount > 0 {
		summary.AverageMargin = marginSum / float64(marginCount)
	}

	return out, summary
}
