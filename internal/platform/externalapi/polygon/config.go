// Package polygon provides a client for the Polygon.io market data API.
package polygon

import (
	"log/slog"
	"time"
	_ "time/tzdata" // America/New_York must resolve in slim containers
)

const (
	defaultBaseURL   = "https://api.polygon.io"
	defaultTimezone  = "America/New_York"
	defaultMaxResult = 50000
)

// Config holds configuration for the Polygon.io API client.
type Config struct {
	APIKey   string        `yaml:"api_key" envconfig:"POLYGON_API_KEY"`
	BaseURL  string        `yaml:"base_url" envconfig:"POLYGON_BASE_URL"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"POLYGON_TIMEOUT"`
	Timezone string        `yaml:"timezone" envconfig:"POLYGON_TIMEZONE"` // display zone for bar timestamps

	// RequestsPerMinute throttles outgoing calls. The free tier allows 5.
	RequestsPerMinute int `yaml:"requests_per_minute" envconfig:"POLYGON_REQUESTS_PER_MINUTE"`
	// MaxResults is passed as the aggregates "limit" parameter.
	MaxResults int `yaml:"max_results" envconfig:"POLYGON_MAX_RESULTS"`

	// QuoteLag shifts the latest-quote window back to stay inside the free tier's delayed data.
	QuoteLag time.Duration `yaml:"quote_lag" envconfig:"POLYGON_QUOTE_LAG"`
	// QuoteWindow is how far back from the lagged end the latest-quote lookup searches.
	QuoteWindow time.Duration `yaml:"quote_window" envconfig:"POLYGON_QUOTE_WINDOW"`

	Retry RetryConfig `yaml:"retry"`
}

// WithDefaults fills zero values.
func (c Config) WithDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 5
	}
	if c.MaxResults <= 0 {
		c.MaxResults = defaultMaxResult
	}
	if c.QuoteLag <= 0 {
		c.QuoteLag = 3 * 24 * time.Hour
	}
	if c.QuoteWindow <= 0 {
		c.QuoteWindow = 10 * 24 * time.Hour
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry = DefaultRetry
	}
	return c
}

// Location resolves the display time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("unknown timezone, using UTC", "timezone", c.Timezone, "error", err)
		return time.UTC
	}
	return loc
}
