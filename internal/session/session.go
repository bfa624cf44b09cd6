// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package session implements the server-side session lifecycle at the heart
of Curado's authentication and authorization layer.

It covers issuance, validation (with a trailing-window expiry refresh),
and invalidation of sessions, plus the cookie attribute policy that binds
a browser to its session id.

Architecture:

  - Manager: Orchestrates the session lifecycle against a [Store].
  - Store: Abstracted persistence port (PostgreSQL or Redis adapters).
  - Resolver: Request-scoped memoization so a single request validates
    at most once, with an uncached bypass for security decisions.

The client holds nothing but an opaque 256-bit random id in an HttpOnly
cookie; every other piece of state lives server-side.
*/
package session

import (
	"time"

	"github.com/curadohealth/curado/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Curado platform.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	PasswordHash  string    `json:"-"` // Explicitly omitted from JSON for security.
	Role          sec.Role  `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session represents an active login session.
//
// A user may hold any number of concurrent sessions (multi-device). A
// session is valid iff now is before ExpiresAt and the owning user still
// exists.
type Session struct {
	ID        string    `json:"-"` // The id is the credential. Never serialized.
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`

	// Fresh is true only on the value returned from a validation that
	// just extended the expiry. It is never persisted.
	Fresh bool `json:"-"`
}

// Validated pairs a session with its owning user.
//
// The zero value is the canonical "no valid session" result: both fields
// nil. Callers must treat the two fields as all-or-nothing.
type Validated struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// Valid reports whether this result carries an authenticated identity.
func (v Validated) Valid() bool {
	return v.User != nil && v.Session != nil
}
