// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"net/http"
	"time"

	"github.com/curadohealth/curado/internal/platform/constants"
)

// # Cookie Policy

// Cookie constructors are pure: they perform no I/O and never touch the
// store. Emission is always the transport layer's job.
//
// Attributes follow one policy everywhere:
//   - HttpOnly always (scripts never read the id)
//   - SameSite=Lax (blocks simple cross-site submission)
//   - Secure outside local development
//   - Path=/ so one cookie covers the whole application

// NewSessionCookie builds the cookie carrying the session id, with an
// expiry directive mirroring the session's effective lifetime.
func NewSessionCookie(session *Session, secure bool) *http.Cookie {
	// Clamp to at least 1: a remaining lifetime under a second would
	// truncate to MaxAge 0, which net/http serializes by omitting the
	// attribute entirely, silently turning this into a browser-session
	// cookie.
	maxAge := int(time.Until(session.ExpiresAt) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}

	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewBlankSessionCookie builds the explicit-invalidation cookie: empty
// value, immediately expired. It must overwrite any existing session
// cookie, so every attribute other than value and age matches
// [NewSessionCookie].
func NewBlankSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
