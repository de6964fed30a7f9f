package pricing

// MarkLowest annotates every group member whose parsed price is within
// CentsTolerance of the group's minimum positive price. Zero-valued prices
// (unparseable upstream strings) are excluded from the minimum but their rows
// are kept, unmarked. A group with no positive price gets no marks at all;
// that degenerate outcome is deliberate and must not be "fixed" by electing
// an arbitrary member.
func MarkLowest(groups []Group) {
	for gi := range groups {
		g := &groups[gi]

		var lowest int64
		for _, p := range g.Products {
			if p.PriceCents <= 0 {
				continue
			}
			if lowest == 0 || p.PriceCents < lowest {
				lowest = p.PriceCents
			}
		}

		for pi := range g.Products {
			p := &g.Products[pi]
			p.IsLowestPrice = lowest > 0 &&
				p.PriceCents > 0 &&
				absDiff(p.PriceCents, lowest) <= CentsTolerance
		}
	}
}

// LowestPriceCents returns the minimum positive price of a group, or 0 when
// every member is zero/unparseable.
func LowestPriceCents(g Group) int64 {
	var lowest int64
	for _, p := range g.Products {
		if p.PriceCents <= 0 {
			continue
		}
		if lowest == 0 || p.PriceCents < lowest {
			lowest = p.PriceCents
		}
	}
	return lowest
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
