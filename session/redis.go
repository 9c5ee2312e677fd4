package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pubcms:session:"

// RedisStore keeps sessions in Redis. Expiry is enforced by the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a RedisStore. A non-positive ttl means DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttlOrDefault(ttl)}
}

func (r *RedisStore) Create(ctx context.Context, userID string) (Session, error) {
	token, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	if err := r.client.Set(ctx, keyPrefix+token, userID, r.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("session: redis set: %w", err)
	}
	return Session{Token: token, UserID: userID, ExpiresAt: time.Now().Add(r.ttl)}, nil
}

func (r *RedisStore) Lookup(ctx context.Context, token string) (Session, error) {
	key := keyPrefix + token
	userID, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: redis get: %w", err)
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return Session{}, fmt.Errorf("session: redis ttl: %w", err)
	}
	return Session{Token: token, UserID: userID, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
