// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package auth implements account enrollment and credential verification for
the Curado platform.

It handles user registration with secure password hashing and the login flow
that exchanges verified credentials for a server-side session.

Architecture:

  - Service: Orchestrates business logic (Signup, Login, revocation).
  - Repository: Abstracted interface for PostgreSQL account storage.
  - Sessions: Delegated entirely to [session.Manager]; this package never
    touches session persistence directly.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/sec"
	"github.com/curadohealth/curado/internal/session"
	"github.com/curadohealth/curado/pkg/uuid"
)

// # Definitions & Constructors

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, signup,
// or login logic must be reviewed before merging.
type Service struct {
	userRepository UserRepository
	sessionManager *session.Manager
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, sessionManager *session.Manager) *Service {
	return &Service{
		userRepository: userRepo,
		sessionManager: sessionManager,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	User    *session.User
	Session *session.Session
}

/*
Signup validates, hashes, and persists a brand new user account, then logs
the member straight in.

Description: Deep-enrollment of a new member, handling password hashing and
immediate session issuance so the browser lands authenticated.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *LoginSession: Created user plus their first session
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*LoginSession, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &session.User{
		ID:            uuid.New(),
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		Role:          sec.RoleUser,
		EmailVerified: false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// Issue the first session immediately after enrollment
	newSession, err := service.sessionManager.Create(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_signup_session_failed: %w", err)
	}

	return &LoginSession{User: user, Session: newSession}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and establishes a session.

Description: Verifies identity, performs constant-time password comparison,
and issues a fresh server-side session for the browser to hold by id.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: The authenticated user and their new session
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Create and persist the session
	newSession, err := service.sessionManager.Create(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{User: user, Session: newSession}, nil
}

// # Administrative Operations

/*
RevokeUserSessions terminates every active session for the given account.

Description: Administrative kill-switch used when an account is compromised
or deactivated. Every device holding a session id is logged out at once.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound when the account does not exist, or revocation failures
*/
func (service *Service) RevokeUserSessions(context context.Context, userID string) error {

	// Resolve the account first so admins get a clear signal on typos.
	if _, err := service.userRepository.FindByID(context, userID); err != nil {
		return err
	}

	if err := service.sessionManager.RevokeUser(context, userID); err != nil {
		return fmt.Errorf("auth_service_revoke_sessions_failed: %w", err)
	}

	return nil
}
