package config

import "time"

// Feed configures the upstream supplier quote feed.
type Feed struct {
	BaseURL  string        `env:"FEED_BASE_URL,required"`
	Timeout  time.Duration `env:"FEED_TIMEOUT" envDefault:"15s"`
	CacheTTL time.Duration `env:"FEED_CACHE_TTL" envDefault:"2m"`
}
