package rbac

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/permgate/permgate/internal/cache"
	"github.com/permgate/permgate/internal/permission"
)

// UserKey is the cache key of a user record.
func UserKey(userID uint64) string {
	return "user-" + strconv.FormatUint(userID, 10)
}

// Coordinator invalidates cached permissions after mutations.
// Invalidation failures are logged, stale entries expire with the cache TTL.
type Coordinator struct {
	cache *cache.Cache
}

// NewCoordinator creates a Coordinator. A nil cache makes every call a no-op.
func NewCoordinator(c *cache.Cache) *Coordinator {
	return &Coordinator{cache: c}
}

// GrantsChanged drops the cached grants of every role and the permissions of the holders of roleID.
func (c *Coordinator) GrantsChanged(ctx context.Context, roleID string) {
	c.invalidate(ctx, TagRolePermissions, RoleUsersTag(roleID))
}

// RolesChanged drops cached role listings.
func (c *Coordinator) RolesChanged(ctx context.Context) {
	c.invalidate(ctx, TagRoles)
}

// CatalogChanged drops the cached catalogs and every value derived from them.
func (c *Coordinator) CatalogChanged(ctx context.Context) {
	c.invalidate(ctx, permission.TagControllers, TagRolePermissions, TagUserPermissions)
}

// UserChanged drops the cached record and permissions of one user, e.g. after a role change.
func (c *Coordinator) UserChanged(ctx context.Context, userID uint64) {
	c.delete(ctx, UserKey(userID), UserPermissionsKey(userID))
}

// ForgetUser drops the cached permissions of one user.
func (c *Coordinator) ForgetUser(ctx context.Context, userID uint64) {
	c.delete(ctx, UserPermissionsKey(userID))
}

func (c *Coordinator) invalidate(ctx context.Context, tags ...string) {
	if c == nil || c.cache == nil {
		return
	}

	if err := c.cache.InvalidateTags(ctx, tags...); err != nil {
		log.Error().Err(err).Strs("tags", tags).Msg("failed to invalidate cache tags")
	}
}

func (c *Coordinator) delete(ctx context.Context, keys ...string) {
	if c == nil || c.cache == nil {
		return
	}

	if err := c.cache.Delete(ctx, keys...); err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("failed to delete cache keys")
	}
}
