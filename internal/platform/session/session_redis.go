package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stocks_bot/internal/feature/dialogue/domain/entity"
	"stocks_bot/internal/feature/dialogue/usecase"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an idle dialogue is kept.
const DefaultTTL = 30 * time.Minute

var _ usecase.SessionStore = (*SessionRedis)(nil)

// SessionRedis implements usecase.SessionStore using Redis.
type SessionRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionRedis creates a new SessionRedis instance. A non-positive ttl means DefaultTTL.
func NewSessionRedis(client *redis.Client, prefix string, ttl time.Duration) *SessionRedis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionRedis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// sessionKey returns the Redis key for a dialogue.
func (r *SessionRedis) sessionKey(key entity.SessionKey) string {
	return fmt.Sprintf("%s:%d:%d", r.prefix, key.UserID, key.ChatID)
}

// Get retrieves a dialogue by user and chat.
func (r *SessionRedis) Get(ctx context.Context, key entity.SessionKey) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess entity.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Save stores the dialogue and restarts its TTL.
func (r *SessionRedis) Save(ctx context.Context, sess *entity.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.sessionKey(sess.Key()), data, r.ttl).Err()
}

// Delete removes the dialogue. Deleting a missing dialogue is not an error.
func (r *SessionRedis) Delete(ctx context.Context, key entity.SessionKey) error {
	return r.client.Del(ctx, r.sessionKey(key)).Err()
}
