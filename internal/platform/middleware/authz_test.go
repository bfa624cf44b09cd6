// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/constants"
	"github.com/curadohealth/curado/internal/platform/middleware"
	"github.com/curadohealth/curado/internal/platform/sec"
	"github.com/curadohealth/curado/internal/session"
)

// # Test Doubles

// stubStore serves a fixed set of sessions, optionally failing every lookup.
type stubStore struct {
	sessions map[string]*session.Session
	users    map[string]*session.User
	findErr  error
}

func (store *stubStore) FindWithUser(_ context.Context, sessionID string) (*session.Session, *session.User, error) {
	if store.findErr != nil {
		return nil, nil, store.findErr
	}
	stored, ok := store.sessions[sessionID]
	if !ok {
		return nil, nil, apperr.NotFound("Session")
	}
	sessionCopy := *stored
	owner, ok := store.users[stored.UserID]
	if !ok {
		return &sessionCopy, nil, nil
	}
	userCopy := *owner
	return &sessionCopy, &userCopy, nil
}

func (store *stubStore) Insert(_ context.Context, _ *session.Session) error { return nil }
func (store *stubStore) UpdateExpiry(_ context.Context, _ string, _ time.Time) error {
	return nil
}
func (store *stubStore) Delete(_ context.Context, _ string) error           { return nil }
func (store *stubStore) DeleteAllForUser(_ context.Context, _ string) error { return nil }

// newGateChain builds AttachSession → Authorize → 200 with the standard
// route table used across these tests.
func newGateChain(store session.Store) http.Handler {
	manager := session.NewManager(store)

	rules := []middleware.Rule{
		{Prefix: "/admin", Requirement: middleware.RoleRestricted, Role: sec.RoleAdmin},
		{Prefix: "/dashboard", Requirement: middleware.Authenticated},
		{Prefix: "/login", Requirement: middleware.GuestOnly},
	}
	destinations := middleware.Destinations{
		Login:     constants.PathLogin,
		Authed:    constants.PathDashboard,
		Forbidden: constants.PathDashboard,
	}

	terminal := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	return middleware.AttachSession(manager)(middleware.Authorize(rules, destinations)(terminal))
}

// newGateStore seeds one regular member session and one admin session.
func newGateStore() *stubStore {
	expiry := time.Now().Add(24 * time.Hour)
	return &stubStore{
		sessions: map[string]*session.Session{
			"member-session": {ID: "member-session", UserID: "user-1", ExpiresAt: expiry},
			"admin-session":  {ID: "admin-session", UserID: "admin-1", ExpiresAt: expiry},
		},
		users: map[string]*session.User{
			"user-1":  {ID: "user-1", Email: "member@example.com", Role: sec.RoleUser},
			"admin-1": {ID: "admin-1", Email: "clinician@example.com", Role: sec.RoleAdmin},
		},
	}
}

/*
TestAuthorize_Matrix exercises every visitor class against every route
class: anonymous, member, and admin against admin-only, authenticated,
and guest-only prefixes.
*/
func TestAuthorize_Matrix(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		cookie       string
		wantStatus   int
		wantLocation string
	}{
		// Anonymous visitor
		{"anonymous_admin", "/admin", "", http.StatusSeeOther, constants.PathLogin},
		{"anonymous_dashboard", "/dashboard", "", http.StatusSeeOther, constants.PathLogin},
		{"anonymous_login", "/login", "", http.StatusOK, ""},

		// Authenticated member
		{"member_admin", "/admin", "member-session", http.StatusSeeOther, constants.PathDashboard},
		{"member_dashboard", "/dashboard", "member-session", http.StatusOK, ""},
		{"member_login", "/login", "member-session", http.StatusSeeOther, constants.PathDashboard},

		// Admin
		{"admin_admin", "/admin", "admin-session", http.StatusOK, ""},
		{"admin_dashboard", "/dashboard", "admin-session", http.StatusOK, ""},
		{"admin_login", "/login", "admin-session", http.StatusSeeOther, constants.PathDashboard},

		// Unmatched prefixes are public
		{"anonymous_unmatched", "/about", "", http.StatusOK, ""},
		{"anonymous_prefix_boundary", "/administrivia", "", http.StatusOK, ""},

		// Nested paths inherit the group's requirement
		{"anonymous_admin_nested", "/admin/intakes", "", http.StatusSeeOther, constants.PathLogin},
		{"admin_admin_nested", "/admin/intakes", "admin-session", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newGateChain(newGateStore())

			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: tt.cookie})
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, recorder.Header().Get("Location"))
			}
		})
	}
}

/*
TestAuthorize_NonCanonicalPath verifies that the gate judges the path
the router will dispatch on, not the raw spelling: dot segments and
duplicate slashes must not smuggle a request past a protected prefix.
*/
func TestAuthorize_NonCanonicalPath(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		cookie       string
		wantStatus   int
		wantLocation string
	}{
		{"anonymous_dot_segment", "/x/../admin", "", http.StatusSeeOther, constants.PathLogin},
		{"anonymous_double_slash", "//admin", "", http.StatusSeeOther, constants.PathLogin},
		{"anonymous_self_dot", "/admin/.", "", http.StatusSeeOther, constants.PathLogin},
		{"anonymous_nested_dot_segment", "/admin/../dashboard", "", http.StatusSeeOther, constants.PathLogin},
		{"member_dot_segment_admin", "/x/../admin", "member-session", http.StatusSeeOther, constants.PathDashboard},
		{"admin_dot_segment_admin", "/x/../admin", "admin-session", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newGateChain(newGateStore())

			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: tt.cookie})
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, recorder.Header().Get("Location"))
			}
		})
	}
}

/*
TestAuthorize_StaleCookie verifies that an unknown session id is treated
as anonymous, not as an error.
*/
func TestAuthorize_StaleCookie(t *testing.T) {
	handler := newGateChain(newGateStore())

	request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "long-gone"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.PathLogin, recorder.Header().Get("Location"))
}

/*
TestAuthorize_StoreErrorFailsClosed verifies that a broken session store
denies access to protected routes instead of granting it.
*/
func TestAuthorize_StoreErrorFailsClosed(t *testing.T) {
	store := newGateStore()
	store.findErr = errors.New("connection reset")
	handler := newGateChain(store)

	request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "member-session"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.PathLogin, recorder.Header().Get("Location"))
}

/*
TestAuthorize_StoreErrorStillServesGuestRoutes verifies that a store
outage does not lock visitors out of the login page itself.
*/
func TestAuthorize_StoreErrorStillServesGuestRoutes(t *testing.T) {
	store := newGateStore()
	store.findErr = errors.New("connection reset")
	handler := newGateChain(store)

	request := httptest.NewRequest(http.MethodGet, "/login", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "member-session"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestAuthorize_ExpiredSession verifies that an expired session is treated
as anonymous by the gate.
*/
func TestAuthorize_ExpiredSession(t *testing.T) {
	store := newGateStore()
	store.sessions["member-session"].ExpiresAt = time.Now().Add(-time.Minute)
	handler := newGateChain(store)

	request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "member-session"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.PathLogin, recorder.Header().Get("Location"))
}
