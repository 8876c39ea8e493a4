package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps server-side login sessions in Redis, keyed by token ID.
// Deleting the record logs the user out everywhere the token is presented.
type SessionStore struct {
	rdb redis.Cmdable
}

// NewSessionStore creates a session store on the given Redis client.
func NewSessionStore(rdb redis.Cmdable) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Create records a session for the user with the given lifetime.
func (s *SessionStore) Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKey(sessionID), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Exists reports whether the session is still live.
func (s *SessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

// Delete revokes the session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
