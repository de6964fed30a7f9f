package http

import (
	"sort"
	"time"

	"github.com/lojatech/precifica/internal/apperr"
	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
)

// ProductResponse is one annotated quote row at the JSON boundary. Price is
// the raw string as the feed published it; PriceValue the normalized amount.
type ProductResponse struct {
	ID            string     `json:"id"`
	Model         string     `json:"model"`
	Brand         string     `json:"brand,omitempty"`
	Storage       string     `json:"storage,omitempty"`
	Color         string     `json:"color,omitempty"`
	Category      string     `json:"category,omitempty"`
	Capacity      string     `json:"capacity,omitempty"`
	Region        string     `json:"region,omitempty"`
	SupplierID    string     `json:"supplierId,omitempty"`
	SupplierName  string     `json:"supplierName,omitempty"`
	Price         string     `json:"price"`
	PriceValue    float64    `json:"priceValue"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	IsLowestPrice bool       `json:"isLowestPrice"`
	MarginApplied float64    `json:"marginApplied"`
	SalesPrice    float64    `json:"salesPrice"`
	MarginSource  *string    `json:"marginSource"`
}

func newProductResponse(p model.Product) ProductResponse {
	res := ProductResponse{
		ID:            p.ID,
		Model:         p.Model,
		Brand:         p.Brand,
		Storage:       p.Storage,
		Color:         p.Color,
		Category:      p.Category,
		Capacity:      p.Capacity,
		Region:        p.Region,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Price:         p.RawPrice,
		PriceValue:    pricing.CentsToFloat(p.PriceCents),
		IsLowestPrice: p.IsLowestPrice,
		MarginApplied: p.MarginApplied,
		SalesPrice:    pricing.CentsToFloat(p.SalesPriceCents),
	}

	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		res.UpdatedAt = &t
	}
	if p.HasMargin() {
		src := string(p.MarginSource)
		res.MarginSource = &src
	}

	return res
}

func newProductResponses(products []model.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, newProductResponse(p))
	}
	return items
}

// MarginRuleResponse is one stored rule in API form; the discriminator field
// matching the type is populated.
type MarginRuleResponse struct {
	MarginPercentage float64 `json:"marginPercentage"`
	CategoryName     string  `json:"categoryName,omitempty"`
	ProductID        string  `json:"productId,omitempty"`
}

// MarginConfigResponse mirrors the margin-config read contract.
type MarginConfigResponse struct {
	GlobalMargin    *MarginRuleResponse  `json:"globalMargin"`
	CategoryMargins []MarginRuleResponse `json:"categoryMargins"`
	ProductMargins  []MarginRuleResponse `json:"productMargins"`
}

func newMarginConfigResponse(cfg model.MarginConfig) MarginConfigResponse {
	res := MarginConfigResponse{
		CategoryMargins: make([]MarginRuleResponse, 0, len(cfg.ByCategory)),
		ProductMargins:  make([]MarginRuleResponse, 0, len(cfg.ByProduct)),
	}

	if cfg.Global != nil {
		res.GlobalMargin = &MarginRuleResponse{MarginPercentage: cfg.Global.Percentage}
	}
	for _, rule := range sortedRules(cfg.ByCategory) {
		res.CategoryMargins = append(res.CategoryMargins, MarginRuleResponse{
			CategoryName:     rule.Key,
			MarginPercentage: rule.Percentage,
		})
	}
	for _, rule := range sortedRules(cfg.ByProduct) {
		res.ProductMargins = append(res.ProductMargins, MarginRuleResponse{
			ProductID:        rule.Key,
			MarginPercentage: rule.Percentage,
		})
	}

	return res
}

// sortedRules returns the map's rules ordered by key so responses are
// deterministic.
func sortedRules(rules map[string]model.MarginRule) []model.MarginRule {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.MarginRule, 0, len(keys))
	for _, k := range keys {
		out = append(out, rules[k])
	}
	return out
}

// apperrBadBody wraps a JSON decoding failure as a validation error.
func apperrBadBody(err error) error {
	return apperr.ValidationErr.WrapParent(err)
}
