package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojatech/precifica/internal/apperr"
	"github.com/lojatech/precifica/internal/config"
	internalhttp "github.com/lojatech/precifica/internal/http"
	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
	"github.com/lojatech/precifica/internal/search"
	"github.com/lojatech/precifica/internal/service"
	"github.com/lojatech/precifica/pkg/validator"
)

type fakePricingService struct {
	listResult service.ListProductsResult
	calcResult service.CalculateResult
	err        error

	gotDate     string
	gotProducts []model.Product
}

func (f *fakePricingService) ListProducts(_ context.Context, date string) (service.ListProductsResult, error) {
	f.gotDate = date
	return f.listResult, f.err
}

func (f *fakePricingService) Calculate(_ context.Context, products []model.Product) (service.CalculateResult, error) {
	f.gotProducts = products
	return f.calcResult, f.err
}

type fakeMarginService struct {
	config model.MarginConfig
	rule   model.MarginRule
	err    error

	gotUpsert *service.UpsertMarginParams
	gotRemove *service.RemoveMarginParams
}

func (f *fakeMarginService) GetConfig(context.Context) (model.MarginConfig, error) {
	return f.config, f.err
}

func (f *fakeMarginService) Upsert(_ context.Context, params service.UpsertMarginParams) (model.MarginRule, error) {
	f.gotUpsert = &params
	return f.rule, f.err
}

func (f *fakeMarginService) Remove(_ context.Context, params service.RemoveMarginParams) error {
	f.gotRemove = &params
	return f.err
}

type fakeSearchService struct {
	suggestions []search.Suggestion
	recent      []string
	err         error

	recorded []string
}

func (f *fakeSearchService) Suggest(_ context.Context, term string) ([]search.Suggestion, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperr.SearchTermRequiredErr
	}
	return f.suggestions, f.err
}

func (f *fakeSearchService) RecordRecent(_ context.Context, _ string, term string) error {
	f.recorded = append(f.recorded, term)
	return f.err
}

func (f *fakeSearchService) RecentSearches(context.Context, string) ([]string, error) {
	return f.recent, f.err
}

type fakeHealthDep struct{ healthy bool }

func (f fakeHealthDep) IsHealthy(context.Context) (bool, error) { return f.healthy, nil }

func (f fakeHealthDep) Get(context.Context, string) (string, error) { return "", nil }
func (f fakeHealthDep) Set(context.Context, string, string, time.Duration) error {
	return nil
}
func (f fakeHealthDep) PushCapped(context.Context, string, string, int64, time.Duration) error {
	return nil
}
func (f fakeHealthDep) List(context.Context, string) ([]string, error) { return nil, nil }

func newTestRouter(t *testing.T, pricingSvc service.PricingService, marginSvc service.MarginService, searchSvc service.SearchService) chi.Router {
	t.Helper()

	validate, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	dep := fakeHealthDep{healthy: true}
	svc := internalhttp.New(
		config.HTTP{Port: 0},
		slog.New(slog.DiscardHandler),
		validate,
		pricingSvc,
		marginSvc,
		searchSvc,
		internalhttp.NewHealthHandler(dep, dep),
	)

	r := chi.NewRouter()
	svc.RegisterHandlers(r)
	return r
}

func doRequest(r chi.Router, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListProductsRoute(t *testing.T) {
	pricingSvc := &fakePricingService{
		listResult: service.ListProductsResult{
			Products: []model.Product{
				{
					ID: "1", Model: "iPhone 15", RawPrice: "R$ 4.300,00", PriceCents: 430000,
					IsLowestPrice: true, MarginApplied: 20, SalesPriceCents: 516000,
					MarginSource: model.MarginSourceCategory,
				},
				{ID: "2", Model: "iPhone 15", RawPrice: "R$ 4.350,00", PriceCents: 435000, SalesPriceCents: 435000},
			},
			Total: 2,
		},
	}
	r := newTestRouter(t, pricingSvc, &fakeMarginService{}, &fakeSearchService{})

	resp := doRequest(r, nethttp.MethodGet, "/api/v1/products?date=15-03", "", nil)

	assert.Equal(t, nethttp.StatusOK, resp.Code)
	assert.Equal(t, "15-03", pricingSvc.gotDate)

	var body struct {
		Products []map[string]any `json:"products"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Products, 2)
	assert.Equal(t, 2, body.Total)

	first := body.Products[0]
	assert.Equal(t, "R$ 4.300,00", first["price"])
	assert.Equal(t, 4300.0, first["priceValue"])
	assert.Equal(t, true, first["isLowestPrice"])
	assert.Equal(t, 5160.0, first["salesPrice"])
	assert.Equal(t, "category", first["marginSource"])

	second := body.Products[1]
	assert.Equal(t, false, second["isLowestPrice"])
	assert.Nil(t, second["marginSource"])
}

func TestCalculatePricesRoute(t *testing.T) {
	t.Run("Should normalize raw rows before calculating", func(t *testing.T) {
		pricingSvc := &fakePricingService{
			calcResult: service.CalculateResult{
				Summary: pricing.Summary{TotalCalculated: 1, AverageMargin: 15},
			},
		}
		r := newTestRouter(t, pricingSvc, &fakeMarginService{}, &fakeSearchService{})

		body := `{"products": [{"id": "1", "model": "iPhone 15", "preco": "R$ 1.000,00", "categoria": "iPhone"}]}`
		resp := doRequest(r, nethttp.MethodPost, "/api/v1/prices/calculate", body, nil)

		assert.Equal(t, nethttp.StatusOK, resp.Code)
		require.Len(t, pricingSvc.gotProducts, 1)
		assert.Equal(t, int64(100000), pricingSvc.gotProducts[0].PriceCents)
		assert.Equal(t, "iPhone", pricingSvc.gotProducts[0].Category)

		var out struct {
			Summary struct {
				TotalCalculated int     `json:"totalCalculated"`
				AverageMargin   float64 `json:"averageMargin"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
		assert.Equal(t, 1, out.Summary.TotalCalculated)
		assert.Equal(t, 15.0, out.Summary.AverageMargin)
	})

	t.Run("Should reject a malformed body", func(t *testing.T) {
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, &fakeSearchService{})

		resp := doRequest(r, nethttp.MethodPost, "/api/v1/prices/calculate", `{"products": `, nil)

		assert.Equal(t, nethttp.StatusBadRequest, resp.Code)
	})
}

func TestMarginRoutes(t *testing.T) {
	t.Run("Should create a rule", func(t *testing.T) {
		marginSvc := &fakeMarginService{
			rule: model.MarginRule{Scope: model.MarginScopeCategory, Key: "iphone", Percentage: 20},
		}
		r := newTestRouter(t, &fakePricingService{}, marginSvc, &fakeSearchService{})

		body := `{"type": "category", "marginPercentage": 20, "categoryName": "iPhone"}`
		resp := doRequest(r, nethttp.MethodPost, "/api/v1/margins", body, nil)

		assert.Equal(t, nethttp.StatusCreated, resp.Code)
		require.NotNil(t, marginSvc.gotUpsert)
		assert.Equal(t, model.MarginScopeCategory, marginSvc.gotUpsert.Type)
		require.NotNil(t, marginSvc.gotUpsert.CategoryName)
		assert.Equal(t, "iPhone", *marginSvc.gotUpsert.CategoryName)
	})

	t.Run("Should reject an out-of-range percentage before the service", func(t *testing.T) {
		marginSvc := &fakeMarginService{}
		r := newTestRouter(t, &fakePricingService{}, marginSvc, &fakeSearchService{})

		body := `{"type": "global", "marginPercentage": 1500}`
		resp := doRequest(r, nethttp.MethodPost, "/api/v1/margins", body, nil)

		assert.Equal(t, nethttp.StatusBadRequest, resp.Code)
		assert.Nil(t, marginSvc.gotUpsert)
	})

	t.Run("Should reject an unknown rule type", func(t *testing.T) {
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, &fakeSearchService{})

		body := `{"type": "percent", "marginPercentage": 10}`
		resp := doRequest(r, nethttp.MethodPost, "/api/v1/margins", body, nil)

		assert.Equal(t, nethttp.StatusBadRequest, resp.Code)
	})

	t.Run("Should return the config with sorted rules", func(t *testing.T) {
		cfg := model.EmptyMarginConfig()
		cfg.Global = &model.MarginRule{Scope: model.MarginScopeGlobal, Percentage: 15}
		cfg.ByCategory["iphone"] = model.MarginRule{Key: "iphone", Percentage: 20}
		cfg.ByCategory["android"] = model.MarginRule{Key: "android", Percentage: 18}
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{config: cfg}, &fakeSearchService{})

		resp := doRequest(r, nethttp.MethodGet, "/api/v1/margins", "", nil)

		assert.Equal(t, nethttp.StatusOK, resp.Code)

		var body struct {
			GlobalMargin *struct {
				MarginPercentage float64 `json:"marginPercentage"`
			} `json:"globalMargin"`
			CategoryMargins []struct {
				CategoryName     string  `json:"categoryName"`
				MarginPercentage float64 `json:"marginPercentage"`
			} `json:"categoryMargins"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		require.NotNil(t, body.GlobalMargin)
		assert.Equal(t, 15.0, body.GlobalMargin.MarginPercentage)
		require.Len(t, body.CategoryMargins, 2)
		assert.Equal(t, "android", body.CategoryMargins[0].CategoryName)
		assert.Equal(t, "iphone", body.CategoryMargins[1].CategoryName)
	})

	t.Run("Should delete a rule", func(t *testing.T) {
		marginSvc := &fakeMarginService{}
		r := newTestRouter(t, &fakePricingService{}, marginSvc, &fakeSearchService{})

		body := `{"type": "global"}`
		resp := doRequest(r, nethttp.MethodDelete, "/api/v1/margins", body, nil)

		assert.Equal(t, nethttp.StatusNoContent, resp.Code)
		require.NotNil(t, marginSvc.gotRemove)
		assert.Equal(t, model.MarginScopeGlobal, marginSvc.gotRemove.Type)
	})

	t.Run("Should map a missing rule to 404", func(t *testing.T) {
		marginSvc := &fakeMarginService{err: apperr.MarginRuleNotFoundErr}
		r := newTestRouter(t, &fakePricingService{}, marginSvc, &fakeSearchService{})

		resp := doRequest(r, nethttp.MethodDelete, "/api/v1/margins", `{"type": "global"}`, nil)

		assert.Equal(t, nethttp.StatusNotFound, resp.Code)
	})
}

func TestSearchRoutes(t *testing.T) {
	t.Run("Should return suggestions", func(t *testing.T) {
		searchSvc := &fakeSearchService{
			suggestions: []search.Suggestion{{Value: "iPhone 15", Score: 100}},
		}
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, searchSvc)

		resp := doRequest(r, nethttp.MethodGet, "/api/v1/search/suggestions?q=iphone", "", nil)

		assert.Equal(t, nethttp.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "iPhone 15")
	})

	t.Run("Should reject a missing query term", func(t *testing.T) {
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, &fakeSearchService{})

		resp := doRequest(r, nethttp.MethodGet, "/api/v1/search/suggestions", "", nil)

		assert.Equal(t, nethttp.StatusBadRequest, resp.Code)
	})

	t.Run("Should require the client id header on recent searches", func(t *testing.T) {
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, &fakeSearchService{})

		resp := doRequest(r, nethttp.MethodGet, "/api/v1/search/recent", "", nil)

		assert.Equal(t, nethttp.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "CLIENT_ID_REQUIRED")
	})

	t.Run("Should record a recent search", func(t *testing.T) {
		searchSvc := &fakeSearchService{}
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, searchSvc)

		resp := doRequest(r, nethttp.MethodPost, "/api/v1/search/recent", `{"term": "iphone 15"}`,
			map[string]string{"X-Client-Id": "client-1"})

		assert.Equal(t, nethttp.StatusNoContent, resp.Code)
		assert.Equal(t, []string{"iphone 15"}, searchSvc.recorded)
	})

	t.Run("Should list recent searches", func(t *testing.T) {
		searchSvc := &fakeSearchService{recent: []string{"iphone 15", "galaxy"}}
		r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, searchSvc)

		resp := doRequest(r, nethttp.MethodGet, "/api/v1/search/recent", "",
			map[string]string{"X-Client-Id": "client-1"})

		assert.Equal(t, nethttp.StatusOK, resp.Code)

		var body struct {
			Data []string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, []string{"iphone 15", "galaxy"}, body.Data)
	})
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t, &fakePricingService{}, &fakeMarginService{}, &fakeSearchService{})

	resp := doRequest(r, nethttp.MethodGet, "/healthz", "", nil)

	assert.Equal(t, nethttp.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}
