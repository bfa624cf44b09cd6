// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

// Package auth's storage layer for user accounts, backed by PostgreSQL.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/sec"
	"github.com/curadohealth/curado/internal/session"
)

// # User Repository

// PostgresUserRepository implements the [UserRepository] interface using pgx.
// It also satisfies [session.UserFinder] for the Redis session backend.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *session.User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *session.User) error {
	const query = `
		INSERT INTO users.account (
			id, email, emailverified, passwordhash, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.EmailVerified,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a lookup on the account table for credential verification.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *session.User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*session.User, error) {
	const query = `
		SELECT id, email, emailverified, passwordhash, role, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(context, query, email, "postgres_user_repo_find_by_email_failed")
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *session.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*session.User, error) {
	const query = `
		SELECT id, email, emailverified, passwordhash, role, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(context, query, id, "postgres_user_repo_find_by_id_failed")
}

// scanOne executes a single-row account query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query, argument, wrapCode string) (*session.User, error) {
	user := &session.User{}
	var role string

	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Email,
		&user.EmailVerified,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("%s: %w", wrapCode, err)
	}

	user.Role = roleFromStorage(role)
	return user, nil
}

// roleFromStorage maps a stored role value onto the typed enum,
// defaulting unknown values to the least-privileged role.
func roleFromStorage(value string) sec.Role {
	if value == string(sec.RoleAdmin) {
		return sec.RoleAdmin
	}
	return sec.RoleUser
}
