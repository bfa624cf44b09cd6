// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package session

import (
	"context"

	"github.com/curadohealth/curado/internal/platform/ctxkey"
)

// # Context Plumbing

// The resolved session travels down the call chain as an explicit
// per-request context value, never a process-wide mutable singleton.

// WithResolver returns a new context carrying the request's [Resolver].
func WithResolver(ctx context.Context, resolver *Resolver) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, resolver)
}

// ResolverFrom retrieves the request's [Resolver].
// Returns nil when the session middleware did not run.
func ResolverFrom(ctx context.Context) *Resolver {
	resolver, ok := ctx.Value(ctxkey.KeySession).(*Resolver)
	if !ok {
		return nil
	}
	return resolver
}
