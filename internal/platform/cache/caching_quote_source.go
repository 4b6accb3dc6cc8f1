// Package cache provides Redis read-through decorators for market data sources.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stocks_bot/internal/feature/fulldata/usecase"
	"stocks_bot/internal/feature/prices/domain/entity"
)

const (
	defaultNamespace   = "quotes"
	defaultDetailsTTL  = 24 * time.Hour
	defaultRefreshHour = 8
)

// CachingQuoteSource decorates a QuoteSource with Redis caching.
// Latest quotes expire at the next refresh hour in the market zone, after the
// previous session's daily bar has settled. Ticker details expire after a fixed TTL.
type CachingQuoteSource struct {
	inner       usecase.QuoteSource
	rdb         *redis.Client
	loc         *time.Location
	detailsTTL  time.Duration
	refreshHour int
	namespace   string
	now         func() time.Time
}

var _ usecase.QuoteSource = (*CachingQuoteSource)(nil)

// NewCachingQuoteSource decorates a QuoteSource with Redis caching.
// If detailsTTL is 0 it defaults to 24 hours. If namespace is empty, it uses "quotes".
// A nil loc means UTC.
func NewCachingQuoteSource(rdb *redis.Client, inner usecase.QuoteSource, loc *time.Location, detailsTTL time.Duration, namespace string) *CachingQuoteSource {
	if detailsTTL <= 0 {
		detailsTTL = defaultDetailsTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CachingQuoteSource{
		inner:       inner,
		rdb:         rdb,
		loc:         loc,
		detailsTTL:  detailsTTL,
		refreshHour: defaultRefreshHour,
		namespace:   namespace,
		now:         time.Now,
	}
}

// FetchLatestQuote returns the latest daily bar, checking the cache first.
func (c *CachingQuoteSource) FetchLatestQuote(ctx context.Context, ticker string) (entity.Bar, error) {
	if c.rdb == nil {
		return c.inner.FetchLatestQuote(ctx, ticker)
	}

	key := c.cacheKey("latest", ticker)
	var bar entity.Bar
	if c.get(ctx, key, &bar) {
		bar.Time = bar.Time.In(c.loc)
		return bar, nil
	}

	bar, err := c.inner.FetchLatestQuote(ctx, ticker)
	if err != nil {
		return entity.Bar{}, err
	}
	c.set(ctx, key, bar, TimeUntilNext(c.now(), c.loc, c.refreshHour))
	return bar, nil
}

// FetchTickerDetails returns reference data for the ticker, checking the cache first.
func (c *CachingQuoteSource) FetchTickerDetails(ctx context.Context, ticker string) (entity.TickerDetails, error) {
	if c.rdb == nil {
		return c.inner.FetchTickerDetails(ctx, ticker)
	}

	key := c.cacheKey("details", ticker)
	var d entity.TickerDetails
	if c.get(ctx, key, &d) {
		return d, nil
	}

	d, err := c.inner.FetchTickerDetails(ctx, ticker)
	if err != nil {
		return entity.TickerDetails{}, err
	}
	c.set(ctx, key, d, c.detailsTTL)
	return d, nil
}

// get reports whether key held a decodable value. Corrupted entries are deleted.
func (c *CachingQuoteSource) get(ctx context.Context, key string, out any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		if err != nil && !errors.Is(err, redis.Nil) {
			slog.Warn("quote cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key. Failures are ignored.
func (c *CachingQuoteSource) set(ctx context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.Warn("quote cache write failed", "key", key, "error", err)
	}
}

// cacheKey generates a cache key such as "quotes:latest:AAPL".
func (c *CachingQuoteSource) cacheKey(kind, ticker string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, kind, safe(ticker))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
