// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curadohealth/curado/internal/platform/middleware"
)

// originTestHandler is the terminal handler behind the verifier.
func originTestHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestVerifyOrigin covers the safe-method pass, the exemption list, and the
host comparison for state-changing requests.
*/
func TestVerifyOrigin(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		host       string
		origin     string
		trusted    []string
		wantStatus int
	}{
		{
			name:       "get_without_origin_passes",
			method:     http.MethodGet,
			path:       "/dashboard",
			host:       "app.curado.health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "head_passes",
			method:     http.MethodHead,
			path:       "/dashboard",
			host:       "app.curado.health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "post_matching_origin_passes",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			origin:     "https://app.curado.health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "post_trusted_origin_passes",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			origin:     "https://staging.curado.health",
			trusted:    []string{"staging.curado.health"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "post_mismatched_origin_rejected",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			origin:     "https://evil.example.com",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "post_missing_origin_rejected",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "post_malformed_origin_rejected",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			origin:     "::not a url::",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "post_exempt_path_passes",
			method:     http.MethodPost,
			path:       "/health",
			host:       "app.curado.health",
			origin:     "https://evil.example.com",
			wantStatus: http.StatusOK,
		},

		// Exemptions match the canonical path, the same spelling the
		// router dispatches on.
		{
			name:       "exempt_path_noncanonical_spelling_passes",
			method:     http.MethodPost,
			path:       "//health",
			host:       "app.curado.health",
			origin:     "https://evil.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "dot_segment_into_checked_path_rejected",
			method:     http.MethodPost,
			path:       "/health/../login",
			host:       "app.curado.health",
			origin:     "https://evil.example.com",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "port_mismatch_rejected",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			origin:     "https://app.curado.health:8443",
			wantStatus: http.StatusForbidden,
		},

		// Default ports are stripped on both sides of the comparison:
		// browsers omit :443 in Origin while some proxies leave it on Host.
		{
			name:       "default_port_on_host_passes",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health:443",
			origin:     "https://app.curado.health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "default_port_on_origin_passes",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			origin:     "https://app.curado.health:443",
			wantStatus: http.StatusOK,
		},
		{
			name:       "default_port_on_trusted_entry_passes",
			method:     http.MethodPost,
			path:       "/login",
			host:       "app.curado.health",
			origin:     "https://staging.curado.health",
			trusted:    []string{"staging.curado.health:443"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.VerifyOrigin(tt.trusted)(originTestHandler())

			request := httptest.NewRequest(tt.method, "https://"+tt.host+tt.path, nil)
			request.Host = tt.host
			if tt.origin != "" {
				request.Header.Set("Origin", tt.origin)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestVerifyOrigin_RejectionTouchesNoCookies verifies that a rejection never
mutates session state on the client.
*/
func TestVerifyOrigin_RejectionTouchesNoCookies(t *testing.T) {
	handler := middleware.VerifyOrigin(nil)(originTestHandler())

	request := httptest.NewRequest(http.MethodPost, "https://app.curado.health/logout", strings.NewReader(""))
	request.Host = "app.curado.health"
	request.Header.Set("Origin", "https://evil.example.com")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())
}
