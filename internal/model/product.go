package model

import (
	"time"
)

// MarginSource identifies which precedence level supplied an applied margin.
type MarginSource string

const (
	MarginSourceProduct  MarginSource = "product"
	MarginSourceCategory MarginSource = "category"
	MarginSourceGlobal   MarginSource = "global"
)

// Product is one observed price quote for a product variant from one
// supplier. Rows arrive from the supplier feed already normalized: RawPrice
// keeps the original formatted string, PriceCents the parsed value in
// centavos (0 when the string did not parse).
type Product struct {
	ID           string
	Model        string
	Brand        string
	Storage      string
	Color        string
	Category     string
	Capacity     string
	Region       string
	SupplierID   string
	SupplierName string
	RawPrice     string
	PriceCents   int64
	UpdatedAt    time.Time

	// Annotations produced by the pricing engine, never part of the input.
	IsLowestPrice   bool
	MarginApplied   float64
	SalesPriceCents int64
	MarginSource    MarginSource // empty when no margin rule matched
}

// HasMargin reports whether a margin rule was resolved for this product.
func (p Product) HasMargin() bool {
	return p.MarginSource != ""
}

// PriceDroppedEvent is published when a variant's lowest observed price falls
// below the previously recorded snapshot.
type PriceDroppedEvent struct {
	VariantKey    string    `json:"variant_key"`
	Model         string    `json:"model"`
	Storage       string    `json:"storage"`
	Color         string    `json:"color"`
	OldPriceCents int64     `json:"old_price_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
	SupplierName  string    `json:"supplier_name"`
	ObservedAt    time.Time `json:"observed_at"`
}
