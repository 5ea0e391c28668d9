// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sy2force/cardbase/internal/platform/sec"
)

/*
TestParseRole verifies the closed role set: the three variants parse, and
everything else is rejected.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    sec.Role
		isValid bool
	}{
		{"user", "user", sec.RoleUser, true},
		{"business", "business", sec.RoleBusiness, true},
		{"admin", "admin", sec.RoleAdmin, true},
		{"empty", "", "", false},
		{"unknown", "superuser", "", false},
		{"case_sensitive", "Admin", "", false},
		{"padded", " admin ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := sec.ParseRole(tt.raw)

			if tt.isValid {
				require.NoError(t, err)
				assert.Equal(t, tt.want, role)
				assert.True(t, role.IsValid())
			} else {
				require.Error(t, err)
			}
		})
	}
}

/*
TestRole_In verifies set membership: allowed sets are disjunctive, with no
implied hierarchy between roles.
*/
func TestRole_In(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.Role
		allowed []sec.Role
		want    bool
	}{
		{"member_single", sec.RoleAdmin, []sec.Role{sec.RoleAdmin}, true},
		{"member_pair", sec.RoleBusiness, []sec.Role{sec.RoleBusiness, sec.RoleAdmin}, true},
		{"not_member", sec.RoleUser, []sec.Role{sec.RoleBusiness, sec.RoleAdmin}, false},
		{"admin_not_implied", sec.RoleAdmin, []sec.Role{sec.RoleUser}, false},
		{"empty_set", sec.RoleAdmin, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.In(tt.allowed...))
		})
	}
}
