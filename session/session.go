// Package session maps opaque login tokens to user ids.
//
// Two backends are provided: an in-process MemoryStore and a RedisStore that
// survives restarts and is shared between processes.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a session stays valid after login.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound is returned by Lookup for unknown or expired tokens.
var ErrNotFound = errors.New("session: not found")

// Session is a live login.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Store creates, resolves and destroys sessions. Implementations are safe
// for concurrent use.
type Store interface {
	Create(ctx context.Context, userID string) (Session, error)
	Lookup(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns 32 random bytes, hex encoded.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewStoreWithFallback returns a RedisStore when client is set and answers a
// ping, otherwise a MemoryStore.
func NewStoreWithFallback(ctx context.Context, client *redis.Client, ttl time.Duration) Store {
	if client == nil {
		log.Println("session: using in-memory store")
		return NewMemoryStore(ttl)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("session: redis unavailable (%v), using in-memory store", err)
		return NewMemoryStore(ttl)
	}
	log.Println("session: using redis store")
	return NewRedisStore(client, ttl)
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
