package http

import (
	"net/http"

	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/service"
)

type marginHandler struct {
	s         *Service
	marginSvc service.MarginService
}

func newMarginHandler(s *Service, marginSvc service.MarginService) *marginHandler {
	return &marginHandler{s: s, marginSvc: marginSvc}
}

func (h *marginHandler) getMargins(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.marginSvc.GetConfig(r.Context())
	if err != nil {
		h.s.respondError(w, r, err)
		return
	}

	h.s.respond(w, r, http.StatusOK, newMarginConfigResponse(cfg))
}

type upsertMarginRequest struct {
	Type             model.MarginScope `json:"type" validate:"required,enum"`
	MarginPercentage float64           `json:"marginPercentage" validate:"gte=0,lte=1000"`
	CategoryName     *string           `json:"categoryName,omitempty"`
	ProductID        *string           `json:"productId,omitempty"`
}

type marginRuleCreatedResponse struct {
	Type             model.MarginScope `json:"type"`
	Key              string            `json:"key,omitempty"`
	MarginPercentage float64           `json:"marginPercentage"`
}

func (h *marginHandler) upsertMargin(w http.ResponseWriter, r *http.Request) {
	var req upsertMarginRequest
	if err := h.s.decodeAndValidate(r, &req); err != nil {
		h.s.respondError(w, r, err)
		return
	}

	rule, err := h.marginSvc.Upsert(r.Context(), service.UpsertMarginParams{
		Type:             req.Type,
		MarginPercentage: req.MarginPercentage,
		CategoryName:     req.CategoryName,
		ProductID:        req.ProductID,
	})
	if err != nil {
		h.s.respondError(w, r, err)
		return
	}

	h.s.respond(w, r, http.StatusCreated, marginRuleCreatedResponse{
		Type:             rule.Scope,
		Key:              rule.Key,
		MarginPercentage: rule.Percentage,
	})
}

type removeMarginRequest struct {
	Type         model.MarginScope `json:"type" validate:"required,enum"`
	CategoryName *string           `json:"categoryName,omitempty"`
	ProductID    *string           `json:"productId,omitempty"`
}

func (h *marginHandler) removeMargin(w http.ResponseWriter, r *http.Request) {
	var req removeMarginRequest
	if err := h.s.decodeAndValidate(r, &req); err != nil {
		h.s.respondError(w, r, err)
		return
	}

	if err := h.marginSvc.Remove(r.Context(), service.RemoveMarginParams{
		Type:         req.Type,
		CategoryName: req.CategoryName,
		ProductID:    req.ProductID,
	}); err != nil {
		h.s.respondError(w, r, err)
		return
	}

	h.s.respond(w, r, http.StatusNoContent, nil)
}
