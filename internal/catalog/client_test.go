package catalog_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojatech/precifica/internal/catalog"
	"github.com/lojatech/precifica/internal/config"
)

func newFeedServer(t *testing.T, body string, gotDate *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotDate != nil {
			*gotDate = r.URL.Query().Get("date")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func newFeedClient(baseURL string) *catalog.HTTPClient {
	return catalog.NewHTTPClient(config.Feed{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, slog.New(slog.DiscardHandler))
}

func TestFetchProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Should normalize rows with aliased fields", func(t *testing.T) {
		body := `{
			"products": [
				{"id": "1", "model": "iPhone 15", "storage": "128GB", "color": "Preto", "category": "iPhone", "price": "R$ 4.300,00", "updatedAt": "2026-03-15T10:00:00Z"},
				{"id": "2", "model": "iPhone 15", "storage": "128GB", "color": "Preto", "categoria": "iPhone", "preco": "4350,00", "lastUpdated": "15/03/2026"},
				{"id": "3", "model": "Galaxy S24", "supplierprice": 3800}
			],
			"total": 3
		}`
		srv := newFeedServer(t, body, nil)
		defer srv.Close()

		products, err := newFeedClient(srv.URL).FetchProducts(ctx, "")

		require.NoError(t, err)
		require.Len(t, products, 3)

		assert.Equal(t, "R$ 4.300,00", products[0].RawPrice)
		assert.Equal(t, int64(430000), products[0].PriceCents)
		assert.Equal(t, "iPhone", products[0].Category)
		assert.Equal(t, 2026, products[0].UpdatedAt.Year())

		assert.Equal(t, int64(435000), products[1].PriceCents)
		assert.Equal(t, "iPhone", products[1].Category)
		assert.Equal(t, time.March, products[1].UpdatedAt.Month())

		assert.Equal(t, int64(380000), products[2].PriceCents)
	})

	t.Run("Should keep malformed rows as zero-priced products", func(t *testing.T) {
		body := `{"products": [{"id": "1", "model": "iPhone 15", "price": "consulte"}], "total": 1}`
		srv := newFeedServer(t, body, nil)
		defer srv.Close()

		products, err := newFeedClient(srv.URL).FetchProducts(ctx, "")

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "iPhone 15", products[0].Model)
		assert.Zero(t, products[0].PriceCents)
		assert.Empty(t, products[0].RawPrice)
	})

	t.Run("Should pass the date through as a query param", func(t *testing.T) {
		var gotDate string
		srv := newFeedServer(t, `{"products": [], "total": 0}`, &gotDate)
		defer srv.Close()

		_, err := newFeedClient(srv.URL).FetchProducts(ctx, "15-03")

		require.NoError(t, err)
		assert.Equal(t, "15-03", gotDate)
	})

	t.Run("Should fail on a non-200 response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newFeedClient(srv.URL).FetchProducts(ctx, "")

		assert.ErrorContains(t, err, "502")
	})
}

func TestNormalizeRow(t *testing.T) {
	t.Run("Should read every mapped field", func(t *testing.T) {
		var row map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(`{
			"id": "sku-9",
			"model": " iPhone 15 ",
			"brand": "Apple",
			"storage": "256GB",
			"color": "Azul",
			"capacity": "256",
			"region": "BR",
			"supplierId": "f-1",
			"supplierName": "Fornecedor A",
			"supplierPrice": "R$ 5.199,90"
		}`), &row))

		p := catalog.NormalizeRow(row)

		assert.Equal(t, "sku-9", p.ID)
		assert.Equal(t, "iPhone 15", p.Model)
		assert.Equal(t, "Apple", p.Brand)
		assert.Equal(t, "Fornecedor A", p.SupplierName)
		assert.Equal(t, int64(519990), p.PriceCents)
		assert.True(t, p.UpdatedAt.IsZero())
	})
}
