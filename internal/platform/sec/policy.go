// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Role Capability Map

// Action identifies a privileged operation that is gated by role.
type Action string

const (
	// ActionCardCreate allows publishing a new business card.
	ActionCardCreate Action = "card:create"

	// ActionCardFavorite allows toggling a card in the caller's favorite set.
	ActionCardFavorite Action = "card:favorite"

	// ActionUserRoleChange allows changing another account's role.
	ActionUserRoleChange Action = "user:role_change"

	// ActionUserList allows listing every registered account.
	ActionUserList Action = "user:list"
)

// capabilities is the static policy mapping each action to the set of roles
// allowed to perform it. Ownership-scoped checks (update/delete of a specific
// card) are handled separately by the ownership guard, not by this map.
var capabilities = map[Action][]Role{
	ActionCardCreate:     {RoleBusiness, RoleAdmin},
	ActionCardFavorite:   {RoleUser, RoleBusiness, RoleAdmin},
	ActionUserRoleChange: {RoleAdmin},
	ActionUserList:       {RoleAdmin},
}

// AllowedRoles returns the set of roles permitted to perform the action.
//
// The returned slice is a copy; callers may not mutate the policy.
func AllowedRoles(action Action) []Role {
	roles := capabilities[action]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Can reports whether the role is allowed to perform the action.
func (r Role) Can(action Action) bool {
	return r.In(capabilities[action]...)
}
