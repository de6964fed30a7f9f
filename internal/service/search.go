package service

import (
	"context"
	"strings"

	"github.com/lojatech/precifica/internal/apperr"
	"github.com/lojatech/precifica/internal/catalog"
	"github.com/lojatech/precifica/internal/config"
	"github.com/lojatech/precifica/internal/search"
)

type SearchService interface {
	// Suggest ranks catalog model names against the query term.
	Suggest(ctx context.Context, term string) ([]search.Suggestion, error)
	// RecordRecent stores a term in the client's search history.
	RecordRecent(ctx context.Context, clientID, term string) error
	// RecentSearches lists the client's history, most recent first.
	RecentSearches(ctx context.Context, clientID string) ([]string, error)
}

type searchService struct {
	feed   catalog.Client
	recent *search.RecentStore
	cfg    config.Search
}

func NewSearchService(feed catalog.Client, recent *search.RecentStore, cfg config.Search) SearchService {
	return &searchService{feed: feed, recent: recent, cfg: cfg}
}

func (s *searchService) Suggest(ctx context.Context, term string) ([]search.Suggestion, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.SearchTermRequiredErr
	}

	products, err := s.feed.FetchProducts(ctx, "")
	if err != nil {
		return nil, apperr.FeedUnavailableErr.WrapParent(err)
	}

	return search.Suggest(products, term, s.cfg.SuggestLimit), nil
}

func (s *searchService) RecordRecent(ctx context.Context, clientID, term string) error {
	if strings.TrimSpace(clientID) == "" {
		return apperr.ClientIDRequiredErr
	}
	if strings.TrimSpace(term) == "" {
		return apperr.SearchTermRequiredErr
	}

	return s.recent.Record(ctx, clientID, term)
}

func (s *searchService) RecentSearches(ctx context.Context, clientID string) ([]string, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, apperr.ClientIDRequiredErr
	}

	return s.recent.List(ctx, clientID)
}
