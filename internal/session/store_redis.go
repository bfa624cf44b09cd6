// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/constants"
)

// # Redis Adapter

// RedisStore implements the [Store] interface on a volatile key-value
// store. Session records are JSON values whose Redis TTL mirrors
// ExpiresAt, so the store expires abandoned sessions on its own; the
// manager's lazy deletion then only ever races with, never replaces,
// that native expiry.
//
// Account records always live in PostgreSQL, so the adapter composes a
// [UserFinder] to hydrate the owning user.
type RedisStore struct {
	client *redis.Client
	users  UserFinder
}

// NewRedisStore creates the volatile [Store] implementation.
func NewRedisStore(client *redis.Client, users UserFinder) *RedisStore {
	return &RedisStore{client: client, users: users}
}

// record is the persisted shape of a session. The id is the key, never
// the value.
type record struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

/*
FindWithUser retrieves a session and hydrates its owning user.

Description: A missing key maps to apperr.NotFound. A session whose
account no longer exists resolves with a nil user, matching the
relational adapter's orphan semantics.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Hydrated session entity
  - *User: Owning account, nil when it no longer exists
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisStore) FindWithUser(context stdctx.Context, sessionID string) (*Session, *User, error) {
	payload, err := store.client.Get(context, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil, apperr.NotFound("Session")
		}
		return nil, nil, fmt.Errorf("redis_session_store_find_failed: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, nil, fmt.Errorf("redis_session_store_decode_failed: %w", err)
	}

	session := &Session{
		ID:        sessionID,
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt,
	}

	user, err := store.users.FindByID(context, rec.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return session, nil, nil
		}
		return nil, nil, fmt.Errorf("redis_session_store_user_lookup_failed: %w", err)
	}

	return session, user, nil
}

/*
Insert persists a new session with a TTL mirroring its expiry.

Description: Also indexes the id under the owner's session set so
[DeleteAllForUser] can revoke without scanning the keyspace.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (store *RedisStore) Insert(context stdctx.Context, session *Session) error {
	payload, err := json.Marshal(record{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("redis_session_store_encode_failed: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if err := store.client.Set(context, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_store_insert_failed: %w", err)
	}

	if err := store.client.SAdd(context, userSessionsKey(session.UserID), session.ID).Err(); err != nil {
		return fmt.Errorf("redis_session_store_index_failed: %w", err)
	}

	return nil
}

/*
UpdateExpiry rewrites the record with the new horizon and refreshed TTL.

Description: Read-modify-write without a transaction: concurrent
refreshers in the trailing window all write effectively the same
horizon, so last-write-wins is acceptable.

Parameters:
  - context: context.Context
  - sessionID: string
  - expiresAt: time.Time

Returns:
  - error: apperr.NotFound when the record vanished, or storage failures
*/
func (store *RedisStore) UpdateExpiry(context stdctx.Context, sessionID string, expiresAt time.Time) error {
	payload, err := store.client.Get(context, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("Session")
		}
		return fmt.Errorf("redis_session_store_update_expiry_read_failed: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return fmt.Errorf("redis_session_store_decode_failed: %w", err)
	}

	rec.ExpiresAt = expiresAt
	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis_session_store_encode_failed: %w", err)
	}

	if err := store.client.Set(context, sessionKey(sessionID), updated, time.Until(expiresAt)).Err(); err != nil {
		return fmt.Errorf("redis_session_store_update_expiry_failed: %w", err)
	}

	return nil
}

/*
Delete removes a session record and its owner-index entry.

Description: Idempotent: deleting an absent key is a success.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Connectivity failures only
*/
func (store *RedisStore) Delete(context stdctx.Context, sessionID string) error {

	// Resolve the owner first so the index entry can be removed too;
	// an already-gone record leaves only the DEL, which is a no-op.
	payload, err := store.client.Get(context, sessionKey(sessionID)).Result()
	if err == nil {
		var rec record
		if json.Unmarshal([]byte(payload), &rec) == nil {
			_ = store.client.SRem(context, userSessionsKey(rec.UserID), sessionID).Err()
		}
	} else if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_session_store_delete_read_failed: %w", err)
	}

	if err := store.client.Del(context, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_session_store_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAllForUser removes every session indexed under the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch deletion failures
*/
func (store *RedisStore) DeleteAllForUser(context stdctx.Context, userID string) error {
	ids, err := store.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_store_index_read_failed: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := store.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_store_delete_all_failed: %w", err)
	}

	return nil
}

// # Key Taxonomy

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}
