package rbac

import (
	"context"
	"strconv"

	"github.com/permgate/permgate/internal/db/models"
)

// Attributes are the route parameters of a request, e.g. {"id": "42"}.
type Attributes map[string]string

// PermissionSource provides the effective permissions of a user.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, user *models.User) (Permissions, error)
}

// publicActions are allowed to every caller, authenticated or not.
var publicActions = map[string][]string{ //nolint:gochecknoglobals
	"ProfileController":      {"getProfile", "updateProfile", "editProfilePassword"},
	"RegistrationController": {"register", "forgotPassword", "verifyEmail", "resetPassword", "resendValidationEmail"},
	"SecurityController":     {"login"},
}

// selfUserActions may not target the caller's own account.
var selfUserActions = map[string][]string{ //nolint:gochecknoglobals
	"UserController": {"getUserDetails", "updateUser", "deleteUser", "editUserPassword"},
}

// selfRoleActions may neither target a role held by the caller nor the superadmin role.
var selfRoleActions = map[string][]string{ //nolint:gochecknoglobals
	"RoleController":           {"getRoleDetails", "updateRole"},
	"RolePermissionController": {"getRolePermissions", "updateRolePermissions"},
}

func listed(table map[string][]string, controller, action string) bool {
	for _, a := range table[controller] {
		if a == action {
			return true
		}
	}

	return false
}

// Checker decides whether a user may run a controller action.
type Checker struct {
	users PermissionSource
}

// NewChecker creates a Checker.
func NewChecker(users PermissionSource) *Checker {
	return &Checker{users: users}
}

// IsPublic reports whether the action is allowed to every caller.
func (c *Checker) IsPublic(controllerID, action string) bool {
	return listed(publicActions, controllerID, action)
}

// IsAuthorized decides whether user may run action of controllerID on the resource named by attrs.
func (c *Checker) IsAuthorized(
	ctx context.Context,
	controllerID, action string,
	user *models.User,
	attrs Attributes,
) (bool, error) {
	switch {
	case user == nil:
		return false, nil
	case user.IsSuperAdmin():
		return true, nil
	case c.IsPublic(controllerID, action):
		return true, nil
	case targetsSelf(controllerID, action, user, attrs):
		return false, nil
	}

	perms, err := c.users.EffectivePermissions(ctx, user)
	if err != nil {
		return false, err
	}

	return perms.Has(controllerID, action), nil
}

func targetsSelf(controllerID, action string, user *models.User, attrs Attributes) bool {
	id, ok := attrs["id"]
	if !ok {
		return false
	}

	if listed(selfUserActions, controllerID, action) {
		target, err := strconv.ParseUint(id, 10, 64)

		return err == nil && target == user.ID
	}

	if listed(selfRoleActions, controllerID, action) {
		return id == models.RoleSuperAdmin || user.HasRole(id)
	}

	return false
}
