// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sy2force/cardbase/internal/platform/sec"
)

/*
TestRole_Can exercises the full capability matrix: publication is reserved
for business and admin, favoriting is open to every authenticated role, and
account administration is admin only.
*/
func TestRole_Can(t *testing.T) {
	tests := []struct {
		name   string
		role   sec.Role
		action sec.Action
		want   bool
	}{
		{"user_cannot_create_card", sec.RoleUser, sec.ActionCardCreate, false},
		{"business_can_create_card", sec.RoleBusiness, sec.ActionCardCreate, true},
		{"admin_can_create_card", sec.RoleAdmin, sec.ActionCardCreate, true},

		{"user_can_favorite", sec.RoleUser, sec.ActionCardFavorite, true},
		{"business_can_favorite", sec.RoleBusiness, sec.ActionCardFavorite, true},
		{"admin_can_favorite", sec.RoleAdmin, sec.ActionCardFavorite, true},

		{"user_cannot_change_roles", sec.RoleUser, sec.ActionUserRoleChange, false},
		{"business_cannot_change_roles", sec.RoleBusiness, sec.ActionUserRoleChange, false},
		{"admin_can_change_roles", sec.RoleAdmin, sec.ActionUserRoleChange, true},

		{"user_cannot_list_users", sec.RoleUser, sec.ActionUserList, false},
		{"business_cannot_list_users", sec.RoleBusiness, sec.ActionUserList, false},
		{"admin_can_list_users", sec.RoleAdmin, sec.ActionUserList, true},

		{"invalid_role_denied", sec.Role("superuser"), sec.ActionCardCreate, false},
		{"unknown_action_denied", sec.RoleAdmin, sec.Action("card:mint"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.action))
		})
	}
}

/*
TestAllowedRoles verifies that the policy exposes copies, so callers cannot
mutate the capability map through the returned slice.
*/
func TestAllowedRoles(t *testing.T) {
	first := sec.AllowedRoles(sec.ActionCardCreate)
	assert.ElementsMatch(t, []sec.Role{sec.RoleBusiness, sec.RoleAdmin}, first)

	first[0] = sec.RoleUser

	second := sec.AllowedRoles(sec.ActionCardCreate)
	assert.ElementsMatch(t, []sec.Role{sec.RoleBusiness, sec.RoleAdmin}, second)
}
