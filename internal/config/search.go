package config

import "time"

type Search struct {
	SuggestLimit int           `env:"SEARCH_SUGGEST_LIMIT" envDefault:"8"`
	RecentMax    int           `env:"SEARCH_RECENT_MAX" envDefault:"10"`
	RecentTTL    time.Duration `env:"SEARCH_RECENT_TTL" envDefault:"168h"`
}
