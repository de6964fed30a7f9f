package http

import (
	"net/http"

	"github.com/lojatech/precifica/internal/apperr"
	"github.com/lojatech/precifica/internal/service"
)

const clientIDHeader = "X-Client-Id"

type searchHandler struct {
	s         *Service
	searchSvc service.SearchService
}

func newSearchHandler(s *Service, searchSvc service.SearchService) *searchHandler {
	return &searchHandler{s: s, searchSvc: searchSvc}
}

type suggestionResponse struct {
	Value string `json:"value"`
	Score int    `json:"score"`
}

type suggestionsResponse struct {
	Data []suggestionResponse `json:"data"`
}

func (h *searchHandler) suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.searchSvc.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.s.respondError(w, r, err)
		return
	}

	resp := suggestionsResponse{Data: make([]suggestionResponse, 0, len(suggestions))}
	for _, sg := range suggestions {
		resp.Data = append(resp.Data, suggestionResponse{Value: sg.Value, Score: sg.Score})
	}
	h.s.respond(w, r, http.StatusOK, resp)
}

type recentSearchesResponse struct {
	Data []string `json:"data"`
}

func (h *searchHandler) listRecent(w http.ResponseWriter, r *http.Request) {
	clientID := r.Header.Get(clientIDHeader)
	if clientID == "" {
		h.s.respondError(w, r, apperr.ClientIDRequiredErr)
		return
	}

	terms, err := h.searchSvc.RecentSearches(r.Context(), clientID)
	if err != nil {
		h.s.respondError(w, r, err)
		return
	}
	if terms == nil {
		terms = []string{}
	}

	h.s.respond(w, r, http.StatusOK, recentSearchesResponse{Data: terms})
}

type recordRecentRequest struct {
	Term string `json:"term" validate:"required"`
}

func (h *searchHandler) recordRecent(w http.ResponseWriter, r *http.Request) {
	clientID := r.Header.Get(clientIDHeader)
	if clientID == "" {
		h.s.respondError(w, r, apperr.ClientIDRequiredErr)
		return
	}

	var req recordRecentRequest
	if err := h.s.decodeAndValidate(r, &req); err != nil {
		h.s.respondError(w, r, err)
		return
	}

	if err := h.searchSvc.RecordRecent(r.Context(), clientID, req.Term); err != nil {
		h.s.respondError(w, r, err)
		return
	}

	h.s.respond(w, r, http.StatusNoContent, nil)
}
