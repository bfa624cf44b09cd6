// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation to login and the session-destroying logout flow.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Browser form posts answered with redirects and session cookies.
  - Security: The session id travels only inside an HttpOnly cookie.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, cookies).
*/
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curadohealth/curado/internal/platform/constants"
	"github.com/curadohealth/curado/internal/platform/ctxutil"
	requestutil "github.com/curadohealth/curado/internal/platform/request"
	"github.com/curadohealth/curado/internal/platform/respond"
	"github.com/curadohealth/curado/internal/platform/validate"
	"github.com/curadohealth/curado/internal/session"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Signup, Login,
// Logout) plus the administrative session kill-switch.
type Handler struct {
	authService    *Service
	sessionManager *session.Manager
	secureCookies  bool
}

// NewHandler constructs a new [Handler] with its service dependencies.
//
// secureCookies controls the cookie's Secure attribute; it is false only in
// local development where the browser talks plain HTTP.
func NewHandler(service *Service, sessionManager *session.Manager, secureCookies bool) *Handler {
	return &Handler{
		authService:    service,
		sessionManager: sessionManager,
		secureCookies:  secureCookies,
	}
}

// Routes registers the public authentication endpoints on the given router.
//
// # Endpoints
//   - POST /signup : Creates a new account and logs it in.
//   - POST /login  : Authenticates and establishes a session.
//   - POST /logout : Destroys the current session.
func (handler *Handler) Routes(router chi.Router) {
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
}

// AdminRoutes registers the administrative endpoints on the given router.
// Access control is enforced upstream by the route authorization gate.
func (handler *Handler) AdminRoutes(router chi.Router) {
	router.Post("/users/{id}/revoke-sessions", handler.revokeSessions)
}

/*
Signup handles the creation of a new user account.

POST /signup

Description: Validates the submitted form, checks for identity conflicts,
persists the new account, and logs the browser straight in.

Request:
  - Form: email, password

Response:
  - 303: Redirect to the dashboard with the session cookie set
  - 400: ErrValidation: Bad input
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	email := request.PostFormValue(FieldEmail)
	password := request.PostFormValue(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, PasswordMinLength).
		MaxLen(FieldPassword, password, PasswordMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loginSession, err := handler.authService.Signup(request.Context(), SignupInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, session.NewSessionCookie(loginSession.Session, handler.secureCookies))
	http.Redirect(writer, request, constants.PathDashboard, http.StatusSeeOther)
}

/*
Login authenticates a user and establishes a session.

POST /login

Description: Verifies credentials, persists a fresh server-side session,
and injects the opaque session id cookie into the response.

Request:
  - Form: email, password

Response:
  - 303: Redirect to the dashboard with the session cookie set
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	email := request.PostFormValue(FieldEmail)
	password := request.PostFormValue(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email)
	validator.Required(FieldPassword, password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loginSession, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, session.NewSessionCookie(loginSession.Session, handler.secureCookies))
	http.Redirect(writer, request, constants.PathDashboard, http.StatusSeeOther)
}

/*
Logout terminates the current user session.

POST /logout

Description: Resolves the session fresh from the store (bypassing the
request cache), deletes the record, clears the browser cookie, and always
redirects. Every failure on the way is logged and swallowed: the one thing
logout never does is strand the user in a half-logged-out state.

Response:
  - 303: Redirect to the post-logout page with a clearing cookie
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	// ── 1. Fresh Resolution ───────────────────────────────────────────
	// Bypass the request-scoped cache: a security decision about to
	// destroy state should see the store, not a memoized snapshot.
	sessionID := ""
	if resolver := session.ResolverFrom(ctx); resolver != nil {
		validated, err := resolver.Uncached(ctx)
		if err != nil {
			logger.Warn("logout_resolution_failed",
				slog.Any("error", err),
				slog.String("request_id", ctxutil.GetRequestID(ctx)),
			)
		}

		if validated.Valid() {
			sessionID = validated.Session.ID
		} else {
			// Validation failed or found nothing, but the browser still
			// presented an id. Delete it anyway.
			sessionID = resolver.SessionID()
		}
	}

	// ── 2. Invalidation ───────────────────────────────────────────────
	if sessionID != "" {
		if err := handler.sessionManager.Invalidate(ctx, sessionID); err != nil {
			logger.Warn("logout_invalidate_failed",
				slog.Any("error", err),
				slog.String("request_id", ctxutil.GetRequestID(ctx)),
			)
		}
	}

	// ── 3. Cookie Teardown ────────────────────────────────────────────
	// Unconditional: even when nothing was invalidated, the browser's
	// copy of the id must die.
	http.SetCookie(writer, session.NewBlankSessionCookie(handler.secureCookies))

	// ── 4. Redirect ───────────────────────────────────────────────────
	http.Redirect(writer, request, constants.PathPostLogout, http.StatusSeeOther)
}

/*
RevokeSessions terminates every session for the targeted account.

POST /admin/users/{id}/revoke-sessions

Description: Administrative kill-switch. The caller's admin role has
already been verified by the route authorization gate.

Response:
  - 200: Success: Sessions revoked
  - 404: ErrNotFound: Unknown account id
*/
func (handler *Handler) revokeSessions(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required(FieldUserID, userID).UUID(FieldUserID, userID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RevokeUserSessions(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "All sessions revoked",
	})
}
