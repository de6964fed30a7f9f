package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lojatech/precifica/internal/config"
	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
)

// Client fetches raw quote rows from the supplier feed for a given DD-MM
// date. An empty date means the feed's current sheet.
type Client interface {
	FetchProducts(ctx context.Context, date string) ([]model.Product, error)
}

type feedResponse struct {
	Products []map[string]json.RawMessage `json:"products"`
	Total    int                          `json:"total"`
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the spreadsheet-backed feed API.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewHTTPClient(cfg config.Feed, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With(slog.String("component", "catalog")),
	}
}

func (c *HTTPClient) FetchProducts(ctx context.Context, date string) ([]model.Product, error) {
	endpoint := c.baseURL + "/products"
	if date != "" {
		endpoint += "?date=" + url.QueryEscape(date)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	products := make([]model.Product, 0, len(body.Products))
	for _, row := range body.Products {
		products = append(products, NormalizeRow(row))
	}

	c.logger.DebugContext(ctx, "fetched supplier feed",
		slog.String("date", date),
		slog.Int("rows", len(products)),
	)

	return products, nil
}

// NormalizeRow maps one permissively-decoded feed row onto the product
// model. Malformed prices become zero-valued rows rather than errors;
// imperfect upstream data is the norm for this feed.
func NormalizeRow(row map[string]json.RawMessage) model.Product {
	p := model.Product{
		ID:           pricing.StringField(row, "id"),
		Model:        pricing.StringField(row, "model"),
		Brand:        pricing.StringField(row, "brand"),
		Storage:      pricing.StringField(row, "storage"),
		Color:        pricing.StringField(row, "color"),
		Category:     pricing.ResolveCategory(row),
		Capacity:     pricing.StringField(row, "capacity"),
		Region:       pricing.StringField(row, "region"),
		SupplierID:   pricing.StringField(row, "supplierId"),
		SupplierName: pricing.StringField(row, "supplierName"),
	}

	if raw, cents, ok := pricing.ResolvePrice(row); ok {
		p.RawPrice = raw
		p.PriceCents = cents
	}

	if ts := pricing.ResolveUpdatedAt(row); ts != "" {
		if parsed, err := parseTimestamp(ts); err == nil {
			p.UpdatedAt = parsed
		}
	}

	return p
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", s)
}
