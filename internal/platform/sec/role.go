// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// Role represents the authorization level granted to an account.
//
// # Closed Set
//
// The three variants below are the only valid roles in the system. Any other
// string is rejected at the boundary by [ParseRole], so invalid roles cannot
// propagate past the parsing layer.
type Role string

const (
	// Unrestricted access to every account and card
	RoleAdmin Role = "admin"

	// Can publish and manage their own business cards
	RoleBusiness Role = "business"

	// Default role for standard registered users
	RoleUser Role = "user"
)

// ParseRole converts a raw string into a [Role].
//
// It fails for anything outside the closed set, including the empty string.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleBusiness, RoleUser:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
}

// IsValid reports whether the role is one of the three defined variants.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// In reports whether the role is a member of the given allowed set.
//
// # Usage
//
// Authorization checks are expressed as disjunctive sets rather than a
// hierarchy: a route allowed for {business, admin} does not imply anything
// about routes allowed for {user}.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}
