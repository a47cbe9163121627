package rbac

import "strconv"

// Cache tags.
const (
	TagRolePermissions = "rolePermissionsCache"
	TagUserPermissions = "userPermissions"
	TagRoles           = "rolesCache"
)

// RoleUsersTag tags the effective permissions of every holder of roleID.
func RoleUsersTag(roleID string) string {
	return "userPermissions-" + roleID
}

// UserPermissionsKey is the cache key of the effective permissions of a user.
func UserPermissionsKey(userID uint64) string {
	return "userPermissions-" + strconv.FormatUint(userID, 10)
}

func roleGrantsKey(roleID string) string {
	return "role-" + roleID
}

func rolePermissionsKey(mode, roleID string) string {
	return "getRolePermissions-" + mode + "-" + roleID
}
