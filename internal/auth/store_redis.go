// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mediashelf/mediashelf/internal/platform/constants"
)

// SessionStore is the Redis-backed session allow-list.
//
// A session entry maps the session id carried inside the JWT to the user it
// was issued for. Tokens whose session entry is gone — expired or revoked by
// logout — are rejected even while their signature is still valid.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed [SessionStore].
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

// Put stores a session entry with the given TTL.
func (store *SessionStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if err := store.client.Set(ctx, sessionKey(sessionID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// UserID returns the user a session was issued for, or "" when the session
// does not exist (never issued, expired, or revoked).
func (store *SessionStore) UserID(ctx context.Context, sessionID string) (string, error) {
	userID, err := store.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return userID, nil
}

// Revoke removes a session entry. Revoking an absent session is a no-op.
func (store *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := store.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
