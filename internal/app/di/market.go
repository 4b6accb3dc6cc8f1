// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	fulldatausecase "stocks_bot/internal/feature/fulldata/usecase"
	"stocks_bot/internal/platform/cache"
	"stocks_bot/internal/platform/externalapi/polygon"
	infrahttp "stocks_bot/internal/platform/http"
	"stocks_bot/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured Polygon client with a tuned HTTP client
// and a per-minute rate limiter.
func NewMarket(cfg polygon.Config) *polygon.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
	return polygon.NewClient(cfg, httpClient, limiter)
}

// NewQuoteSource wraps the market client with the Redis quote cache when Redis is available.
func NewQuoteSource(rdb *redis.Client, market *polygon.Client, detailsTTL time.Duration, namespace string) fulldatausecase.QuoteSource {
	if rdb == nil {
		return market
	}
	return cache.NewCachingQuoteSource(rdb, market, market.Location(), detailsTTL, namespace)
}
