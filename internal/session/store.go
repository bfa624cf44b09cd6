// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"context"
	"time"
)

// # Session Data Access

// Store defines the persistence contract consumed by the [Manager].
//
// # Concurrency
//
// Implementations must tolerate concurrent validation and refresh of the
// same session id from parallel requests (e.g. multiple browser tabs).
// Last-write-wins on the expiry extension is acceptable: concurrent
// writers extend to effectively the same horizon.
type Store interface {

	/*
		FindWithUser returns the session with the given id together with
		its owning user.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *Session: Hydrated session, or apperr.NotFound when absent
		  - *User: Owning user, nil when the account no longer exists
		  - error: apperr.NotFound or storage failures
	*/
	FindWithUser(context context.Context, sessionID string) (*Session, *User, error)

	/*
		Insert persists a newly issued session.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Insert(context context.Context, session *Session) error

	/*
		UpdateExpiry moves the session's expiry to a new horizon.

		Parameters:
		  - context: context.Context
		  - sessionID: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateExpiry(context context.Context, sessionID string, expiresAt time.Time) error

	/*
		Delete removes a session unconditionally.

		Description: Idempotent: deleting a non-existent id is not an error.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures only
	*/
	Delete(context context.Context, sessionID string) error

	/*
		DeleteAllForUser removes every session belonging to the user.

		Description: Administrative revocation across all devices.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteAllForUser(context context.Context, userID string) error
}

// # User Data Access

// UserFinder resolves user accounts by id. The Redis session adapter
// composes it with the relational user repository, since account records
// always live in PostgreSQL.
type UserFinder interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity, or apperr.NotFound when absent
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)
}
