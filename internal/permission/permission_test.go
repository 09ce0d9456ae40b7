package permission

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := Default()

	cases := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, CanDeletePosts, true},
		{RoleAdmin, CanDeleteComments, true},
		{RoleAdmin, CanRemoveMembers, true},
		{RoleAdmin, CanEditCommunity, true},
		{RoleAdmin, CanManageRoles, true},

		{RoleModerator, CanDeletePosts, true},
		{RoleModerator, CanDeleteComments, true},
		{RoleModerator, CanRemoveMembers, true},
		{RoleModerator, CanEditCommunity, false},
		{RoleModerator, CanManageRoles, false},

		{RoleMember, CanDeletePosts, false},
		{RoleMember, CanDeleteComments, false},
		{RoleMember, CanRemoveMembers, false},
		{RoleMember, CanEditCommunity, false},
		{RoleMember, CanManageRoles, false},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, table.Has(tc.role, tc.perm), "%s/%s", tc.role, tc.perm)
	}
}

func TestHasDeniesUnknown(t *testing.T) {
	table := Default()
	require.False(t, table.Has(Role("owner"), CanDeletePosts))
	require.False(t, table.Has(RoleAdmin, Permission("can_fly")))
	require.False(t, table.Has(Role(""), Permission("")))
}

func TestValid(t *testing.T) {
	require.True(t, Valid(RoleAdmin))
	require.True(t, Valid(RoleModerator))
	require.True(t, Valid(RoleMember))
	require.False(t, Valid(Role("owner")))
	require.False(t, Valid(Role("")))
}
