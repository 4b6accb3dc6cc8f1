package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"stocks_bot/internal/feature/dialogue/usecase"
	"stocks_bot/internal/platform/session"
)

// NewSessionStore creates a SessionStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to process memory.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) usecase.SessionStore {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "dialogue", ttl)
	}
	return session.NewSessionMemory(ttl)
}
