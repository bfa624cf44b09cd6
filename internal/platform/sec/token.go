// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

// Package sec provides cryptographic primitives for identity handling.
//
// # Architecture
//
// This package isolates security-sensitive code (random token generation,
// password hashing, role hierarchy) from the domain logic. It has no
// dependencies on storage or transport layers.
package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random token with byteLength
// bytes of entropy.
//
// # Usage
//
// Session identifiers are generated with 32 bytes (256 bits), making them
// unguessable by construction. The returned string is base64url without
// padding, safe for cookies and URLs.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
