// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package middleware

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/curadohealth/curado/internal/platform/ctxutil"
	"github.com/curadohealth/curado/internal/platform/sec"
	"github.com/curadohealth/curado/internal/session"
)

// # Route Authorization Gate

// Requirement classifies what a route group demands of its visitors.
type Requirement int

const (
	// Public routes perform no check.
	Public Requirement = iota

	// GuestOnly routes (login, signup) bounce already-authenticated
	// visitors to their dashboard.
	GuestOnly

	// Authenticated routes require a valid session.
	Authenticated

	// RoleRestricted routes require a valid session AND a sufficient
	// role (set on [Rule.Role]).
	RoleRestricted
)

// Rule binds a path prefix to a [Requirement]. Rules are evaluated in
// order; the first matching prefix wins and no other rule is consulted.
type Rule struct {
	Prefix      string
	Requirement Requirement
	Role        sec.Role // Only read when Requirement is RoleRestricted.
}

// Destinations are the navigational redirect targets for failed checks.
//
// They are deliberately coarse: a visitor cannot distinguish "no
// session" from "wrong role" from "store error" by response shape, only
// by destination.
type Destinations struct {
	// Login is the "must authenticate" target.
	Login string
	// Authed is the "already authenticated" target for guest-only routes.
	Authed string
	// Forbidden is the target for valid sessions with insufficient role.
	// It must never reveal the protected content, and it is a redirect,
	// not an HTTP 403.
	Forbidden string
}

// Authorize enforces route-group authorization via an explicit ordered
// rule list.
//
// # Flow
//  1. Match the CANONICAL request path against the rules, first prefix
//     wins; no match means public. The raw URL path is never trusted:
//     "/x/../admin" and "//admin" both route to "/admin", so the gate
//     must judge the path the router will actually dispatch, not the
//     one the client spelled.
//  2. Resolve the session UNCACHED; the gate is the source of truth
//     immediately before a security-relevant rendering decision, and a
//     memoized snapshot from earlier in the request must not decide it.
//  3. Apply the matched requirement; failures redirect (303), success
//     falls through to the handler.
//
// # Failure Policy
//
// A store error during resolution is logged and treated as "no valid
// session": the gate fails closed, never open into protected content.
//
// Must be registered AFTER [AttachSession].
func Authorize(rules []Rule, destinations Destinations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			rule, matched := matchRule(rules, canonicalPath(request))
			if !matched || rule.Requirement == Public {
				next.ServeHTTP(writer, request)
				return
			}

			resolved := resolveUncached(request)

			switch rule.Requirement {

			case GuestOnly:
				if resolved.Valid() {
					http.Redirect(writer, request, destinations.Authed, http.StatusSeeOther)
					return
				}

			case Authenticated:
				if !resolved.Valid() {
					http.Redirect(writer, request, destinations.Login, http.StatusSeeOther)
					return
				}

			case RoleRestricted:
				if !resolved.Valid() {
					http.Redirect(writer, request, destinations.Login, http.StatusSeeOther)
					return
				}
				if !resolved.User.Role.AtLeast(rule.Role) {
					http.Redirect(writer, request, destinations.Forbidden, http.StatusSeeOther)
					return
				}
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// canonicalPath returns the request path the router will dispatch on:
// dot segments resolved, duplicate slashes collapsed. It mirrors the
// precedence of chi's CleanPath middleware (RawPath when the URL
// carries escaped characters, Path otherwise), which normalizes only
// the routing context and leaves URL.Path untouched. Path-keyed
// security decisions must therefore clean the path themselves.
func canonicalPath(request *http.Request) string {
	requestPath := request.URL.Path
	if request.URL.RawPath != "" {
		requestPath = request.URL.RawPath
	}
	return path.Clean(requestPath)
}

// matchRule returns the first rule whose prefix covers the path.
// A prefix matches on exact equality or at a path-segment boundary,
// so "/admin" covers "/admin/queue" but not "/administrivia".
func matchRule(rules []Rule, path string) (Rule, bool) {
	for _, rule := range rules {
		if path == rule.Prefix || strings.HasPrefix(path, rule.Prefix+"/") {
			return rule, true
		}
	}
	return Rule{}, false
}

// resolveUncached resolves the request's session straight from the
// store, mapping every failure mode (missing middleware, store error)
// to "no valid session".
func resolveUncached(request *http.Request) session.Validated {
	resolver := session.ResolverFrom(request.Context())
	if resolver == nil {
		return session.Validated{}
	}

	resolved, err := resolver.Uncached(request.Context())
	if err != nil {
		ctxutil.GetLogger(request.Context()).Error("authz_session_resolution_failed",
			slog.String("location", "middleware.Authorize"),
			slog.Any("error", err),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		return session.Validated{}
	}

	return resolved
}
