// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/constants"
	"github.com/curadohealth/curado/internal/platform/ctxutil"
	"github.com/curadohealth/curado/internal/platform/sec"
)

// # Session Manager

// Manager owns the session lifecycle: issuance, validation with expiry
// refresh, and invalidation.
//
// # Expiry Policy
//
// Sessions live for a fixed TTL from creation. There is no background
// sweep: expired records are deleted lazily on the next failed
// validation. A session resolved inside the final third of its lifetime
// has its expiry extended by a full TTL, so active users stay logged in
// indefinitely without a store write on every request.
type Manager struct {
	store Store
	ttl   time.Duration
	clock func() time.Time
}

// NewManager constructs a [Manager] with the standard TTL.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		ttl:   constants.SessionTTL,
		clock: time.Now,
	}
}

/*
Create issues a new session for the given user.

Description: Generates an unguessable random id and persists the session
with a full-TTL expiry. Cookie emission is the caller's responsibility.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Session: The issued session
  - error: apperr.Store on persistence failure
*/
func (manager *Manager) Create(context context.Context, userID string) (*Session, error) {

	// 256 bits of entropy; the id is the credential.
	id, err := sec.GenerateSecureToken(constants.SessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("session_manager_generate_id_failed: %w", err)
	}

	session := &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: manager.clock().Add(manager.ttl),
	}

	storeCtx, cancel := manager.storeContext(context)
	defer cancel()

	if err := manager.store.Insert(storeCtx, session); err != nil {
		return nil, apperr.Store(fmt.Errorf("session_manager_create_failed: %w", err))
	}

	return session, nil
}

/*
Validate resolves a session id into its session and owning user.

Description: Absent, expired, or orphaned sessions yield the zero
[Validated] (nil pair). Expired and orphaned records are deleted
best-effort in the background; that cleanup is logged, never surfaced.
A session inside the final third of its lifetime gets its expiry
extended by a full TTL and is returned with Fresh=true; a failure of
that optimistic write is recovered (the session stays valid on its old
horizon).

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - Validated: Session + user pair, or the zero value
  - error: apperr.Store only when the authoritative lookup itself failed;
    callers making authorization decisions must fail closed on it
*/
func (manager *Manager) Validate(context context.Context, sessionID string) (Validated, error) {
	if sessionID == "" {
		return Validated{}, nil
	}

	storeCtx, cancel := manager.storeContext(context)
	defer cancel()

	session, user, err := manager.store.FindWithUser(storeCtx, sessionID)
	if err != nil {
		// An unknown id is the expected "not logged in" case.
		if apperr.IsNotFound(err) {
			return Validated{}, nil
		}
		return Validated{}, apperr.Store(fmt.Errorf("session_manager_lookup_failed: %w", err))
	}

	now := manager.clock()

	// ── 1. Expiry Check ───────────────────────────────────────────────
	if !now.Before(session.ExpiresAt) {
		manager.deleteDetached(context, session.ID, "expired_session_cleanup")
		return Validated{}, nil
	}

	// ── 2. Orphan Check ───────────────────────────────────────────────
	// The owning account is gone; the session grants nothing.
	if user == nil {
		manager.deleteDetached(context, session.ID, "orphaned_session_cleanup")
		return Validated{}, nil
	}

	// ── 3. Trailing-Window Refresh ────────────────────────────────────
	if !now.Before(session.ExpiresAt.Add(-manager.ttl / 3)) {
		newExpiry := now.Add(manager.ttl)
		if err := manager.store.UpdateExpiry(storeCtx, session.ID, newExpiry); err != nil {
			// Optimistic extension only: the session remains valid on
			// its previous horizon.
			ctxutil.GetLogger(context).Warn("session_refresh_failed",
				slog.String("location", "session.Manager.Validate"),
				slog.Any("error", err),
				slog.String("request_id", ctxutil.GetRequestID(context)),
			)
		} else {
			session.ExpiresAt = newExpiry
			session.Fresh = true
		}
	}

	return Validated{User: user, Session: session}, nil
}

/*
Invalidate deletes the session record unconditionally.

Description: Idempotent: a session that is already gone is a success.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: apperr.Store on persistence failure; callers on the logout
    path log it and continue
*/
func (manager *Manager) Invalidate(context context.Context, sessionID string) error {
	storeCtx, cancel := manager.storeContext(context)
	defer cancel()

	if err := manager.store.Delete(storeCtx, sessionID); err != nil {
		return apperr.Store(fmt.Errorf("session_manager_invalidate_failed: %w", err))
	}
	return nil
}

/*
RevokeUser deletes every session belonging to the user.

Description: Administrative revocation across all devices.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.Store on persistence failure
*/
func (manager *Manager) RevokeUser(context context.Context, userID string) error {
	storeCtx, cancel := manager.storeContext(context)
	defer cancel()

	if err := manager.store.DeleteAllForUser(storeCtx, userID); err != nil {
		return apperr.Store(fmt.Errorf("session_manager_revoke_user_failed: %w", err))
	}
	return nil
}

// # Internals

// storeContext bounds a store round-trip so no validation or
// invalidation can block past [constants.StoreCallTimeout].
func (manager *Manager) storeContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, constants.StoreCallTimeout)
}

// deleteDetached removes a stale session in the background, detached
// from the request lifecycle so an aborted request cannot interrupt it.
// Failures are logged and swallowed: the record stays until the next
// failed validation retries the cleanup.
func (manager *Manager) deleteDetached(requestCtx context.Context, sessionID, event string) {
	logger := ctxutil.GetLogger(requestCtx)
	requestID := ctxutil.GetRequestID(requestCtx)

	go func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), constants.StoreCallTimeout)
		defer cancel()

		if err := manager.store.Delete(cleanupCtx, sessionID); err != nil {
			logger.Warn(event+"_failed",
				slog.String("location", "session.Manager.deleteDetached"),
				slog.Any("error", err),
				slog.String("request_id", requestID),
			)
		}
	}()
}
