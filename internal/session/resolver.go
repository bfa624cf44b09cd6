// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"context"
	"sync"
)

// # Request-Scoped Resolution

// Resolver memoizes session validation for the lifetime of one request.
//
// # Why memoize?
//
// A single render pass may ask for the current user from several nested
// handlers. Without memoization each ask would be a store round-trip,
// and concurrent asks could even observe different snapshots mid-refresh.
// The resolver computes the validation at most once and hands every
// caller the same result.
//
// # Freshness Escape Hatch
//
// [Resolver.Uncached] bypasses the memo and always consults the store.
// The route authorization gate uses it as the source of truth immediately
// before a security-relevant decision, so a cached result can never
// disagree with the store at the boundary it protects.
//
// A Resolver is created per request and discarded with it. It must never
// be reused across requests.
type Resolver struct {
	manager   *Manager
	sessionID string

	mu       sync.Mutex
	resolved bool
	value    Validated
	err      error
}

// NewResolver constructs a [Resolver] for the session id carried by the
// current request (empty when no cookie was presented).
func NewResolver(manager *Manager, sessionID string) *Resolver {
	return &Resolver{
		manager:   manager,
		sessionID: sessionID,
	}
}

// Current returns the memoized validation result, computing it on first
// use. Both entry points share one code path: a cached result is always
// bit-for-bit the shape [Manager.Validate] produced.
func (resolver *Resolver) Current(ctx context.Context) (Validated, error) {
	resolver.mu.Lock()
	defer resolver.mu.Unlock()

	if !resolver.resolved {
		resolver.value, resolver.err = resolver.manager.Validate(ctx, resolver.sessionID)
		resolver.resolved = true
	}

	return resolver.value, resolver.err
}

// Uncached validates against the store directly, bypassing the memo.
// It does not update the memoized value: handlers further down continue
// to observe the snapshot their render pass started with.
func (resolver *Resolver) Uncached(ctx context.Context) (Validated, error) {
	return resolver.manager.Validate(ctx, resolver.sessionID)
}

// Peek returns the memoized result without triggering resolution.
// The boolean reports whether a result exists yet.
func (resolver *Resolver) Peek() (Validated, bool) {
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	return resolver.value, resolver.resolved
}

// SessionID returns the raw id from the request cookie, empty when the
// request carried none. The logout flow uses it to invalidate even when
// validation itself is failing.
func (resolver *Resolver) SessionID() string {
	return resolver.sessionID
}
