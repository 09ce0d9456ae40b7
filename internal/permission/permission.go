// Package permission holds the static community role table. Roles only apply
// inside communities, never to account authentication.
package permission

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

type Permission string

const (
	CanDeletePosts    Permission = "can_delete_posts"
	CanDeleteComments Permission = "can_delete_comments"
	CanRemoveMembers  Permission = "can_remove_members"
	CanEditCommunity  Permission = "can_edit_community"
	CanManageRoles    Permission = "can_manage_roles"
)

// Table maps roles to their capabilities. It is configuration data, built
// once and never mutated at runtime.
type Table map[Role]map[Permission]bool

var defaultTable = Table{
	RoleAdmin: {
		CanDeletePosts:    true,
		CanDeleteComments: true,
		CanRemoveMembers:  true,
		CanEditCommunity:  true,
		CanManageRoles:    true,
	},
	RoleModerator: {
		CanDeletePosts:    true,
		CanDeleteComments: true,
		CanRemoveMembers:  true,
		CanEditCommunity:  false,
		CanManageRoles:    false,
	},
	RoleMember: {
		CanDeletePosts:    false,
		CanDeleteComments: false,
		CanRemoveMembers:  false,
		CanEditCommunity:  false,
		CanManageRoles:    false,
	},
}

// Default returns the process-wide role table.
func Default() Table { return defaultTable }

// Has reports whether role grants perm. Unknown roles and unknown
// permissions deny.
func (t Table) Has(role Role, perm Permission) bool {
	perms, ok := t[role]
	if !ok {
		return false
	}
	return perms[perm]
}

// Valid reports whether role is one of the closed role set.
func Valid(role Role) bool {
	_, ok := defaultTable[role]
	return ok
}
