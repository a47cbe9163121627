package rbac

import (
	"context"

	"github.com/permgate/permgate/internal/cache"
	"github.com/permgate/permgate/internal/db/models"
)

// TrueGrantSource provides the authorized grants of a role.
type TrueGrantSource interface {
	TrueGrantsForRole(ctx context.Context, roleID string) (Permissions, error)
}

// UserResolver resolves the effective permissions of users.
type UserResolver struct {
	roles TrueGrantSource
	cache *cache.Cache
}

// NewUserResolver creates a UserResolver. The cache may be nil.
func NewUserResolver(roles TrueGrantSource, c *cache.Cache) *UserResolver {
	return &UserResolver{roles: roles, cache: c}
}

// EffectivePermissions returns the union of the authorized grants of every role of user.
// Superadmins get an empty map: they bypass the checks instead.
func (u *UserResolver) EffectivePermissions(ctx context.Context, user *models.User) (Permissions, error) {
	if user.IsSuperAdmin() {
		return Permissions{}, nil
	}

	roles := user.Roles()

	tags := make([]string, 0, len(roles)+1)
	tags = append(tags, TagUserPermissions)

	for _, role := range roles {
		tags = append(tags, RoleUsersTag(role))
	}

	return cache.Remember(ctx, u.cache, UserPermissionsKey(user.ID), tags, func(ctx context.Context) (Permissions, error) {
		out := Permissions{}

		for _, role := range roles {
			grants, err := u.roles.TrueGrantsForRole(ctx, role)
			if err != nil {
				return nil, err
			}

			out = out.Union(grants)
		}

		return out, nil
	})
}
