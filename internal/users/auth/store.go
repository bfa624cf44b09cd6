// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package auth

import (
	"context"

	"github.com/curadohealth/curado/internal/session"
)

// # Account Constraints

const (
	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8

	// PasswordMaxLength caps input at bcrypt's effective limit.
	PasswordMaxLength = 72
)

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUserID   = "user_id"
	FieldMessage  = "message"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// It is a superset of [session.UserFinder], so the same repository serves
// both the authentication flows and the Redis session adapter's account
// resolution.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *session.User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*session.User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *session.User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*session.User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *session.User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *session.User) error
}
