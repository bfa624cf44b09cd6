// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package middleware

import (
	"net"
	"net/http"
	"net/url"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/respond"
)

// # Origin Verification

// safeMethods never mutate state and pass the origin check unconditionally.
var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// exemptPaths are public, read-only routes excluded from all origin
// checks. This is an ergonomics exemption, not a security one: these
// routes are GET-only by construction, so the method check alone would
// already pass them. Skipping early just keeps the hot marketing paths
// out of the header parsing.
var exemptPaths = map[string]bool{
	"/":        true,
	"/about":   true,
	"/privacy": true,
	"/health":  true,
	"/ready":   true,
}

// VerifyOrigin rejects state-changing cross-origin requests.
//
// # Flow
//  1. Safe methods (GET, HEAD, OPTIONS, TRACE) pass unconditionally.
//  2. Exempt public paths pass unconditionally, matched on the
//     canonical path so the exemption agrees with what the router will
//     dispatch.
//  3. Otherwise both Origin and Host must be present, and the Origin's
//     host must match the serving host or one of the configured trusted
//     hosts. Default ports (:443, :80) are stripped before comparison,
//     since proxies disagree on whether Host carries them. Anything
//     else is a 403, with no cookie mutation.
//
// # Scope
//
// This is a defense-in-depth CSRF mitigation layered on top of the
// SameSite cookie policy. It is not authentication and runs regardless
// of session validity.
//
// # Parameters
//   - trustedHosts: Extra host[:port] values accepted besides the
//     request's own Host header.
func VerifyOrigin(trustedHosts []string) func(http.Handler) http.Handler {
	trusted := make(map[string]bool, len(trustedHosts))
	for _, host := range trustedHosts {
		trusted[normalizeHost(host)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Safe Methods ───────────────────────────────────────────────
			if safeMethods[request.Method] {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Public Exemptions ──────────────────────────────────────────
			if exemptPaths[canonicalPath(request)] {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Header Presence ────────────────────────────────────────────
			origin := request.Header.Get("Origin")
			host := request.Host
			if origin == "" || host == "" {
				respond.Error(writer, request, apperr.Forbidden("Cross-origin request rejected"))
				return
			}

			// ── 4. Host Comparison ────────────────────────────────────────────
			originURL, err := url.Parse(origin)
			if err != nil || originURL.Host == "" {
				respond.Error(writer, request, apperr.Forbidden("Cross-origin request rejected"))
				return
			}

			originHost := normalizeHost(originURL.Host)
			if originHost != normalizeHost(host) && !trusted[originHost] {
				respond.Error(writer, request, apperr.Forbidden("Cross-origin request rejected"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// normalizeHost strips an explicit default port (:443, :80) so that
// "app.curado.health:443" and "app.curado.health" compare equal. Browsers
// omit default ports in Origin while some proxies leave them on Host,
// and the mismatch would reject legitimate same-origin requests.
// Non-default ports are kept verbatim.
func normalizeHost(host string) string {
	hostname, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	if port == "443" || port == "80" {
		return hostname
	}
	return host
}
