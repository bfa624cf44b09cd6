// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// Roles are immutable through this layer: only an explicit administrative
// action (outside the authentication core) may change them.
type Role string

const (
	// Unrestricted access to the administrative review area
	RoleAdmin Role = "admin"

	// Default role for standard registered users
	RoleUser Role = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleUser:
		return 10
	default:
		return 0
	}
}
