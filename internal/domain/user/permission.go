package user

type Permission string

const (
	PermissionBalanceViewOwn Permission = "balance.view_own"
	PermissionBalanceViewAll Permission = "balance.view_all"
	PermissionPasswordChange Permission = "password.change"
	PermissionUserList       Permission = "user.list"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionBalanceViewOwn,
		PermissionBalanceViewAll,
		PermissionPasswordChange,
		PermissionUserList,
	},
	RoleUser: {
		PermissionBalanceViewOwn,
		PermissionPasswordChange,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
