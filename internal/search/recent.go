package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/lojatech/precifica/internal/config"
	"github.com/lojatech/precifica/internal/storage/cache"
)

const recentKeyPrefix = "precifica:recent:"

// RecentStore keeps a per-client list of recent search terms in Redis. Each
// write refreshes the TTL, so inactive clients age out of the keyspace
// instead of accumulating forever.
type RecentStore struct {
	store cache.Store
	cfg   config.Search
}

func NewRecentStore(store cache.Store, cfg config.Search) *RecentStore {
	return &RecentStore{store: store, cfg: cfg}
}

// Record adds a term to the client's history, most recent first. The term is
// deduplicated and the list capped at the configured maximum.
func (s *RecentStore) Record(ctx context.Context, clientID, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	if err := s.store.PushCapped(ctx, recentKey(clientID), term, int64(s.cfg.RecentMax), s.cfg.RecentTTL); err != nil {
		return fmt.Errorf("record recent search: %w", err)
	}
	return nil
}

// List returns the client's recent terms, most recent first.
func (s *RecentStore) List(ctx context.Context, clientID string) ([]string, error) {
	terms, err := s.store.List(ctx, recentKey(clientID))
	if err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}
	return terms, nil
}

func recentKey(clientID string) string {
	return recentKeyPrefix + clientID
}
