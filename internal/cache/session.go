package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resumeforge/resumeforge/internal/model"
)

// sessionPrefix is the Redis key prefix for session records.
const sessionPrefix = "session:"

// ErrSessionNotFound is returned when no live session exists for a key.
var ErrSessionNotFound = errors.New("session not found")

func sessionKey(id string) string { return sessionPrefix + id }

// CreateSession stores the session until its ExpiresAt.
func (c *Cache) CreateSession(ctx context.Context, s *model.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession loads a session by its hashed id.
// Returns ErrSessionNotFound on a miss or a corrupted entry.
func (c *Cache) GetSession(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		// Corrupted entry - treat as miss
		return nil, ErrSessionNotFound
	}
	if s.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (c *Cache) DeleteSession(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
