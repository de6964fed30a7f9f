package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MarginScope is the precedence level a margin rule applies at.
type MarginScope string

const (
	MarginScopeGlobal   MarginScope = "global"
	MarginScopeCategory MarginScope = "category"
	MarginScopeProduct  MarginScope = "product"
)

// Validate implements the enum contract used by the validator package.
func (s MarginScope) Validate() error {
	switch s {
	case MarginScopeGlobal, MarginScopeCategory, MarginScopeProduct:
		return nil
	default:
		return fmt.Errorf("unknown margin scope: %q", s)
	}
}

// MarginRule is one stored margin. Key is empty for the global rule, the
// category name for category rules, and the product id for product rules.
// (scope, key) is unique, which makes the global rule a singleton.
type MarginRule struct {
	ID         uuid.UUID
	Scope      MarginScope
	Key        string
	Percentage float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MarginConfig is a consistent snapshot of every stored margin rule, indexed
// for resolution. Category keys are folded (trimmed, lowercased) the same way
// lookups fold them.
type MarginConfig struct {
	Global     *MarginRule
	ByCategory map[string]MarginRule
	ByProduct  map[string]MarginRule
}

// EmptyMarginConfig returns a config with no rules at any level.
func EmptyMarginConfig() MarginConfig {
	return MarginConfig{
		ByCategory: map[string]MarginRule{},
		ByProduct:  map[string]MarginRule{},
	}
}
