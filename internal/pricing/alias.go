package pricing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The feed exposes the same logical field under several historical keys.
// Aliases are resolved once, in priority order, instead of per-call fallback
// chains scattered through the codebase.
var (
	priceAliases    = []string{"price", "supplierPrice", "supplierprice", "preco"}
	categoryAliases = []string{"category", "categoria"}
	updatedAliases  = []string{"updatedAt", "lastUpdated"}
)

// ResolvePrice returns the first alias field that holds a usable price, as
// the raw string observed plus its parsed value in centavos. A row with no
// parseable price yields ("", 0, false); the row is still kept downstream.
func ResolvePrice(row map[string]json.RawMessage) (raw string, cents int64, ok bool) {
	for _, key := range priceAliases {
		val, present := row[key]
		if !present {
			continue
		}

		str, numeric := rawToString(val)
		if !numeric {
			continue
		}
		if c, parsed := ParseBRLCents(str); parsed {
			return str, c, true
		}
	}
	return "", 0, false
}

// ResolveCategory returns the first populated category alias, trimmed.
func ResolveCategory(row map[string]json.RawMessage) string {
	for _, key := range categoryAliases {
		if val, present := row[key]; present {
			if s, ok := rawToString(val); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// ResolveUpdatedAt returns the first populated timestamp alias as a string;
// the catalog client parses it leniently.
func ResolveUpdatedAt(row map[string]json.RawMessage) string {
	for _, key := range updatedAliases {
		if val, present := row[key]; present {
			if s, ok := rawToString(val); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// StringField decodes a plain string (or number) field from a raw feed row.
func StringField(row map[string]json.RawMessage, key string) string {
	if val, present := row[key]; present {
		if s, ok := rawToString(val); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// rawToString converts a raw JSON scalar to its string form. JSON numbers
// keep their textual representation; null and composite values are rejected.
func rawToString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}

	return "", false
}
