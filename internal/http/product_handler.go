package http

import (
	"encoding/json"
	"net/http"

	"github.com/lojatech/precifica/internal/catalog"
	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/service"
)

type productHandler struct {
	s          *Service
	pricingSvc service.PricingService
}

func newProductHandler(s *Service, pricingSvc service.PricingService) *productHandler {
	return &productHandler{s: s, pricingSvc: pricingSvc}
}

type listProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	result, err := h.pricingSvc.ListProducts(r.Context(), date)
	if err != nil {
		h.s.respondError(w, r, err)
		return
	}

	h.s.respond(w, r, http.StatusOK, listProductsResponse{
		Products: newProductResponses(result.Products),
		Total:    result.Total,
	})
}

// calculateRequest carries raw rows so callers can submit the same loosely
// shaped records the feed produces; alias fields are resolved during
// normalization.
type calculateRequest struct {
	Products []map[string]json.RawMessage `json:"products"`
}

type calculateSummaryResponse struct {
	TotalCalculated int     `json:"totalCalculated"`
	AverageMargin   float64 `json:"averageMargin"`
}

type calculateResponse struct {
	Data    []ProductResponse        `json:"data"`
	Summary calculateSummaryResponse `json:"summary"`
}

func (h *productHandler) calculatePrices(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.s.respondError(w, r, apperrBadBody(err))
		return
	}

	products := make([]model.Product, 0, len(req.Products))
	for _, row := range req.Products {
		products = append(products, catalog.NormalizeRow(row))
	}

	result, err := h.pricingSvc.Calculate(r.Context(), products)
	if err != nil {
		h.s.respondError(w, r, err)
		return
	}

	h.s.respond(w, r, http.StatusOK, calculateResponse{
		Data: newProductResponses(result.Products),
		Summary: calculateSummaryResponse{
			TotalCalculated: result.Summary.TotalCalculated,
			AverageMargin:   result.Summary.AverageMargin,
		},
	})
}
