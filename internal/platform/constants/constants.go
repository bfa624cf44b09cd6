// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: TTL, refresh policy, and cookie configuration.
  - Navigation: Redirect destinations used by the authorization gate.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "curado-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// SessionTTL is the full lifetime of a session from creation or refresh.
	SessionTTL = 30 * 24 * time.Hour

	// SessionIDLength is the byte length of the random session identifier.
	// 32 bytes = 256 bits of entropy, beyond any feasible guessing attack.
	SessionIDLength = 32

	// SessionCookieName is the cookie that carries the opaque session id.
	// All other session state lives server-side.
	SessionCookieName = "curado_session"

	// StoreCallTimeout bounds every session store round-trip so an
	// authorization decision can never block indefinitely.
	StoreCallTimeout = 3 * time.Second
)

// # Navigation

// Redirect destinations used by the route authorization gate and the
// logout flow. Destinations are intentionally coarse: a rejected request
// learns only "go authenticate" or "go to your dashboard", never why.
const (
	// PathLogin is the "must authenticate" destination.
	PathLogin = "/login"

	// PathDashboard is both the "already authenticated" and the
	// "insufficient role" destination.
	PathDashboard = "/dashboard"

	// PathPostLogout is where every logout lands, success or not.
	PathPostLogout = "/login"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaUsers  = "users"
	SchemaTriage = "triage"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession      = "auth:session:"
	RedisPrefixUserSessions = "auth:user_sessions:"
)
