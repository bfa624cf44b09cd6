// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/sec"
)

// # PostgreSQL Adapter

// PostgresStore implements the [Store] interface against the
// users.session and users.account tables.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to
// [apperr.AppError] types at this boundary so the manager never sees
// driver internals.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the relational [Store] implementation.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
FindWithUser retrieves a session joined with its owning account.

Description: Uses a LEFT JOIN so a session whose account has been removed
still resolves, with a nil user, letting the manager detect and clean
up the orphan instead of conflating it with "no session".

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Hydrated session entity
  - *User: Owning account, nil when it no longer exists
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindWithUser(context context.Context, sessionID string) (*Session, *User, error) {
	const query = `
		SELECT s.id, s.userid, s.expiresat,
		       a.id, a.email, a.emailverified, a.passwordhash, a.role, a.createdat, a.updatedat
		FROM users.session s
		LEFT JOIN users.account a ON a.id = s.userid
		WHERE s.id = $1`

	session := &Session{}
	var (
		userID        sql.NullString
		email         sql.NullString
		emailVerified sql.NullBool
		passwordHash  sql.NullString
		role          sql.NullString
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
	)

	err := store.pool.QueryRow(context, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&userID,
		&email,
		&emailVerified,
		&passwordHash,
		&role,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperr.NotFound("Session")
		}
		return nil, nil, fmt.Errorf("postgres_session_store_find_failed: %w", err)
	}

	// Orphaned session: the join produced no account columns.
	if !userID.Valid {
		return session, nil, nil
	}

	user := &User{
		ID:            userID.String,
		Email:         email.String,
		EmailVerified: emailVerified.Bool,
		PasswordHash:  passwordHash.String,
		Role:          roleFromString(role.String),
		CreatedAt:     createdAt.Time,
		UpdatedAt:     updatedAt.Time,
	}

	return session, user, nil
}

/*
Insert persists a new session record into the users.session table.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (store *PostgresStore) Insert(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (id, userid, expiresat, createdat)
		VALUES ($1, $2, $3, $4)`

	_, err := store.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.ExpiresAt,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_session_store_insert_failed: %w", err)
	}

	return nil
}

/*
UpdateExpiry extends a session's lifetime to the new horizon.

Description: Concurrent extensions race benignly: every writer in the
refresh window targets the same TTL horizon, so last-write-wins.

Parameters:
  - context: context.Context
  - sessionID: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (store *PostgresStore) UpdateExpiry(context context.Context, sessionID string, expiresAt time.Time) error {
	const query = "UPDATE users.session SET expiresat = $2 WHERE id = $1"

	_, err := store.pool.Exec(context, query, sessionID, expiresAt)
	if err != nil {
		return fmt.Errorf("postgres_session_store_update_expiry_failed: %w", err)
	}

	return nil
}

/*
Delete removes a session record.

Description: Idempotent: zero rows affected is a success.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Execution errors only
*/
func (store *PostgresStore) Delete(context context.Context, sessionID string) error {
	const query = "DELETE FROM users.session WHERE id = $1"

	_, err := store.pool.Exec(context, query, sessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_store_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAllForUser removes every session belonging to the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch deletion failures
*/
func (store *PostgresStore) DeleteAllForUser(context context.Context, userID string) error {
	const query = "DELETE FROM users.session WHERE userid = $1"

	_, err := store.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_store_delete_all_failed: %w", err)
	}

	return nil
}

// roleFromString maps a stored role value onto the typed enum,
// defaulting unknown values to the least-privileged role.
func roleFromString(value string) sec.Role {
	if value == string(sec.RoleAdmin) {
		return sec.RoleAdmin
	}
	return sec.RoleUser
}
