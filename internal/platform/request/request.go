// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/internal/platform/validate"
	"github.com/curadohealth/curado/internal/session"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
CurrentSession resolves the request's session through the memoized,
request-scoped resolver. Every caller within one render pass observes
the same snapshot.

Returns the zero [session.Validated] when the request is anonymous or
the middleware did not run; the error is a store failure.
*/
func CurrentSession(request *http.Request) (session.Validated, error) {
	resolver := session.ResolverFrom(request.Context())
	if resolver == nil {
		return session.Validated{}, nil
	}
	return resolver.Current(request.Context())
}

/*
RequiredUser returns the authenticated user for the request.

Returns:
  - *session.User: The authenticated user
  - error: apperr.Unauthorized when the request has no valid session
    (including fail-closed store errors)
*/
func RequiredUser(request *http.Request) (*session.User, error) {
	resolved, err := CurrentSession(request)
	if err != nil || !resolved.Valid() {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return resolved.User, nil
}
