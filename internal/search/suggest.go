package search

import (
	"sort"
	"strings"

	"github.com/lojatech/precifica/internal/model"
)

// Suggestion is one ranked search candidate.
type Suggestion struct {
	Value string
	Score int
}

// Match tiers. Fuzzy matches score below every literal tier and degrade with
// edit distance.
const (
	scoreExact     = 100
	scorePrefix    = 80
	scoreSubstring = 60
	scoreFuzzyBase = 40

	maxEditDistance = 2
)

// Suggest ranks distinct product model names against the query: exact match,
// then prefix, then substring, then small-edit-distance fuzzy matches. Ties
// break alphabetically so results are deterministic. Matching is
// case-insensitive and trimmed, the same fold the variant key uses.
func Suggest(products []model.Product, query string, limit int) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []Suggestion
	for _, p := range products {
		name := strings.TrimSpace(p.Model)
		if name == "" {
			continue
		}

		folded := strings.ToLower(name)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}

		if score, ok := scoreFor(folded, q); ok {
			out = append(out, Suggestion{Value: name, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Value < out[j].Value
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func scoreFor(candidate, query string) (int, bool) {
	switch {
	case candidate == query:
		return scoreExact, true
	case strings.HasPrefix(candidate, query):
		return scorePrefix, true
	case strings.Contains(candidate, query):
		return scoreSubstring, true
	}

	// Fuzzy matching only pays off for queries long enough to have typos.
	if len(query) < 4 {
		return 0, false
	}
	if d := boundedEditDistance(candidate, query, maxEditDistance); d <= maxEditDistance {
		return scoreFuzzyBase - d, true
	}

	return 0, false
}

// boundedEditDistance computes the Levenshtein distance between a and b,
// giving up (returning bound+1) as soon as the distance exceeds bound.
func boundedEditDistance(a, b string, bound int) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	if abs(la-lb) > bound {
		return bound + 1
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > bound {
			return bound + 1
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
