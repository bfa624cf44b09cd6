// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/curadohealth/curado/internal/platform/constants"
)

/*
TestNewSessionCookie verifies the attribute policy on the session cookie.
*/
func TestNewSessionCookie(t *testing.T) {
	expiry := time.Now().Add(constants.SessionTTL)
	active := &Session{ID: "opaque-id", UserID: "user-1", ExpiresAt: expiry}

	cookie := NewSessionCookie(active, true)

	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.Equal(t, "opaque-id", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, expiry, cookie.Expires)

	// Max-Age mirrors the remaining lifetime.
	assert.InDelta(t, int(constants.SessionTTL/time.Second), cookie.MaxAge, 5)
}

/*
TestNewSessionCookie_DevelopmentInsecure verifies that only the Secure
attribute changes for plain-HTTP development.
*/
func TestNewSessionCookie_DevelopmentInsecure(t *testing.T) {
	active := &Session{ID: "opaque-id", ExpiresAt: time.Now().Add(time.Hour)}

	cookie := NewSessionCookie(active, false)

	assert.False(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

/*
TestNewSessionCookie_ImminentExpiry verifies that a session in its final
second still serializes a Max-Age attribute. net/http omits Max-Age
entirely when it is 0, which would silently downgrade the cookie to
browser-session lifetime.
*/
func TestNewSessionCookie_ImminentExpiry(t *testing.T) {
	closing := &Session{ID: "opaque-id", ExpiresAt: time.Now().Add(500 * time.Millisecond)}

	cookie := NewSessionCookie(closing, true)

	assert.Equal(t, 1, cookie.MaxAge)
	assert.Contains(t, cookie.String(), "Max-Age=1")
}

/*
TestNewBlankSessionCookie verifies that the clearing cookie instructs the
browser to discard its copy immediately.
*/
func TestNewBlankSessionCookie(t *testing.T) {
	cookie := NewBlankSessionCookie(true)

	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}
