// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/constants"
	"github.com/curadohealth/curado/internal/platform/sec"
)

// # Test Doubles

// fakeStore is an in-memory [Store] with injectable failures.
type fakeStore struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	users     map[string]*User
	findErr   error
	insertErr error
	updateErr error
	deleteErr error
	findCalls int
	deleted   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]*Session),
		users:    make(map[string]*User),
	}
}

func (store *fakeStore) FindWithUser(_ context.Context, sessionID string) (*Session, *User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.findCalls++
	if store.findErr != nil {
		return nil, nil, store.findErr
	}

	stored, ok := store.sessions[sessionID]
	if !ok {
		return nil, nil, apperr.NotFound("Session")
	}

	// Return a copy so manager-side mutation does not leak into the store.
	sessionCopy := *stored

	owner, ok := store.users[stored.UserID]
	if !ok {
		return &sessionCopy, nil, nil
	}
	userCopy := *owner

	return &sessionCopy, &userCopy, nil
}

func (store *fakeStore) Insert(_ context.Context, session *Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.insertErr != nil {
		return store.insertErr
	}
	stored := *session
	store.sessions[session.ID] = &stored
	return nil
}

func (store *fakeStore) UpdateExpiry(_ context.Context, sessionID string, expiresAt time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.updateErr != nil {
		return store.updateErr
	}
	if stored, ok := store.sessions[sessionID]; ok {
		stored.ExpiresAt = expiresAt
	}
	return nil
}

func (store *fakeStore) Delete(_ context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.deleteErr != nil {
		return store.deleteErr
	}
	delete(store.sessions, sessionID)
	store.deleted = append(store.deleted, sessionID)
	return nil
}

func (store *fakeStore) DeleteAllForUser(_ context.Context, userID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.deleteErr != nil {
		return store.deleteErr
	}
	for id, stored := range store.sessions {
		if stored.UserID == userID {
			delete(store.sessions, id)
			store.deleted = append(store.deleted, id)
		}
	}
	return nil
}

func (store *fakeStore) deletedIDs() []string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]string(nil), store.deleted...)
}

func (store *fakeStore) seed(sessionID, userID string, expiresAt time.Time, withUser bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.sessions[sessionID] = &Session{ID: sessionID, UserID: userID, ExpiresAt: expiresAt}
	if withUser {
		store.users[userID] = &User{ID: userID, Email: userID + "@example.com", Role: sec.RoleUser}
	}
}

// newTestManager returns a manager pinned to the given wall clock.
func newTestManager(store *fakeStore, now time.Time) *Manager {
	manager := NewManager(store)
	manager.clock = func() time.Time { return now }
	return manager
}

// # Issuance

/*
TestManager_Create verifies that new sessions carry an unguessable id and
a full-TTL expiry.
*/
func TestManager_Create(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	manager := newTestManager(store, now)

	created, err := manager.Create(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.GreaterOrEqual(t, len(created.ID), 32)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, now.Add(constants.SessionTTL), created.ExpiresAt)

	// The record must be persisted under its id.
	store.mu.Lock()
	_, ok := store.sessions[created.ID]
	store.mu.Unlock()
	assert.True(t, ok)
}

/*
TestManager_Create_Distinct verifies that consecutive sessions never share
an id.
*/
func TestManager_Create_Distinct(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store)

	first, err := manager.Create(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := manager.Create(context.Background(), "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

/*
TestManager_Create_StoreFailure verifies that a persistence failure
surfaces as a store error.
*/
func TestManager_Create_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("connection refused")
	manager := NewManager(store)

	_, err := manager.Create(context.Background(), "user-1")

	require.Error(t, err)
	assert.True(t, apperr.IsStore(err))
}

// # Validation

/*
TestManager_Validate_UnknownID verifies that an unrecognized id is a clean
"not logged in", not an error.
*/
func TestManager_Validate_UnknownID(t *testing.T) {
	manager := NewManager(newFakeStore())

	validated, err := manager.Validate(context.Background(), "no-such-id")

	require.NoError(t, err)
	assert.False(t, validated.Valid())
	assert.Nil(t, validated.User)
	assert.Nil(t, validated.Session)
}

/*
TestManager_Validate_EmptyID verifies that a blank id short-circuits
without touching the store.
*/
func TestManager_Validate_EmptyID(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store)

	validated, err := manager.Validate(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, validated.Valid())
	assert.Zero(t, store.findCalls)
}

/*
TestManager_Validate_Expired verifies that an expired session yields the
zero result and is eventually deleted.
*/
func TestManager_Validate_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed("sess-1", "user-1", now.Add(-time.Minute), true)
	manager := newTestManager(store, now)

	validated, err := manager.Validate(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.False(t, validated.Valid())

	// Cleanup is detached from the request; give it a moment.
	require.Eventually(t, func() bool {
		for _, id := range store.deletedIDs() {
			if id == "sess-1" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

/*
TestManager_Validate_ExactExpiry verifies that a session is invalid at the
exact expiry instant.
*/
func TestManager_Validate_ExactExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed("sess-1", "user-1", now, true)
	manager := newTestManager(store, now)

	validated, err := manager.Validate(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.False(t, validated.Valid())
}

/*
TestManager_Validate_Orphaned verifies that a session whose account is gone
grants nothing and is cleaned up.
*/
func TestManager_Validate_Orphaned(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed("sess-1", "ghost-user", now.Add(24*time.Hour), false)
	manager := newTestManager(store, now)

	validated, err := manager.Validate(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.False(t, validated.Valid())

	require.Eventually(t, func() bool {
		for _, id := range store.deletedIDs() {
			if id == "sess-1" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

/*
TestManager_Validate_RefreshWindow verifies the trailing-third refresh
policy: early validations leave the horizon alone, late ones extend it.
*/
func TestManager_Validate_RefreshWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := constants.SessionTTL

	tests := []struct {
		name        string
		elapsed     time.Duration
		wantRefresh bool
	}{
		{"first_day", 24 * time.Hour, false},
		{"middle_of_life", 15 * 24 * time.Hour, false},
		{"just_before_window", 20*24*time.Hour - time.Second, false},
		{"window_boundary", 20 * 24 * time.Hour, true},
		{"deep_in_window", 29*24*time.Hour + 12*time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			expiry := base.Add(ttl)
			store.seed("sess-1", "user-1", expiry, true)

			now := base.Add(tt.elapsed)
			manager := newTestManager(store, now)

			validated, err := manager.Validate(context.Background(), "sess-1")

			require.NoError(t, err)
			require.True(t, validated.Valid())

			if tt.wantRefresh {
				assert.True(t, validated.Session.Fresh)
				assert.Equal(t, now.Add(ttl), validated.Session.ExpiresAt)

				// The extension must also be persisted.
				store.mu.Lock()
				assert.Equal(t, now.Add(ttl), store.sessions["sess-1"].ExpiresAt)
				store.mu.Unlock()
			} else {
				assert.False(t, validated.Session.Fresh)
				assert.Equal(t, expiry, validated.Session.ExpiresAt)
			}
		})
	}
}

/*
TestManager_Validate_ActiveUserStaysLoggedIn walks a session through a
refresh and confirms it outlives its original horizon.
*/
func TestManager_Validate_ActiveUserStaysLoggedIn(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := constants.SessionTTL
	store := newFakeStore()
	store.seed("sess-1", "user-1", base.Add(ttl), true)
	manager := newTestManager(store, base)

	// Visit half a day before the original expiry: refresh fires.
	manager.clock = func() time.Time { return base.Add(ttl - 12*time.Hour) }
	validated, err := manager.Validate(context.Background(), "sess-1")
	require.NoError(t, err)
	require.True(t, validated.Valid())
	assert.True(t, validated.Session.Fresh)

	// Past the original horizon, the session is still alive.
	manager.clock = func() time.Time { return base.Add(ttl + 24*time.Hour) }
	validated, err = manager.Validate(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, validated.Valid())
}

/*
TestManager_Validate_RefreshFailureKeepsOldHorizon verifies that a failed
expiry extension does not kill an otherwise valid session.
*/
func TestManager_Validate_RefreshFailureKeepsOldHorizon(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := constants.SessionTTL
	store := newFakeStore()
	expiry := base.Add(ttl)
	store.seed("sess-1", "user-1", expiry, true)
	store.updateErr = errors.New("write timeout")

	manager := newTestManager(store, base.Add(ttl-time.Hour))

	validated, err := manager.Validate(context.Background(), "sess-1")

	require.NoError(t, err)
	require.True(t, validated.Valid())
	assert.False(t, validated.Session.Fresh)
	assert.Equal(t, expiry, validated.Session.ExpiresAt)
}

/*
TestManager_Validate_StoreError verifies that a failed lookup surfaces as
a store error so authorization callers can fail closed.
*/
func TestManager_Validate_StoreError(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("connection reset")
	manager := NewManager(store)

	validated, err := manager.Validate(context.Background(), "sess-1")

	require.Error(t, err)
	assert.True(t, apperr.IsStore(err))
	assert.False(t, validated.Valid())
}

// # Invalidation

/*
TestManager_Invalidate verifies deletion and its idempotency.
*/
func TestManager_Invalidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed("sess-1", "user-1", now.Add(24*time.Hour), true)
	manager := newTestManager(store, now)

	require.NoError(t, manager.Invalidate(context.Background(), "sess-1"))

	validated, err := manager.Validate(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, validated.Valid())

	// A second invalidation of the same id is a success.
	assert.NoError(t, manager.Invalidate(context.Background(), "sess-1"))
}

/*
TestManager_Invalidate_StoreFailure verifies the error classification on a
failed delete.
*/
func TestManager_Invalidate_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.deleteErr = errors.New("connection refused")
	manager := NewManager(store)

	err := manager.Invalidate(context.Background(), "sess-1")

	require.Error(t, err)
	assert.True(t, apperr.IsStore(err))
}

/*
TestManager_RevokeUser verifies that revocation removes every session of
the target user and nobody else's.
*/
func TestManager_RevokeUser(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed("sess-1", "user-1", now.Add(24*time.Hour), true)
	store.seed("sess-2", "user-1", now.Add(24*time.Hour), true)
	store.seed("sess-3", "user-2", now.Add(24*time.Hour), true)
	manager := newTestManager(store, now)

	require.NoError(t, manager.RevokeUser(context.Background(), "user-1"))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NotContains(t, store.sessions, "sess-1")
	assert.NotContains(t, store.sessions, "sess-2")
	assert.Contains(t, store.sessions, "sess-3")
}
