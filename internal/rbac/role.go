package rbac

import (
	"context"
	"fmt"

	"github.com/permgate/permgate/internal/cache"
	"github.com/permgate/permgate/internal/db/controller/grant"
	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/permission"
)

// GrantReader reads the grants of a role.
type GrantReader interface {
	FindGrants(ctx context.Context, roleID string, authorizedOnly bool) ([]models.RolePermission, error)
}

// GrantStore is the persistence port of the grant table.
type GrantStore interface {
	GrantReader
	RoleExists(ctx context.Context, roleID string) (bool, error)
	Replace(ctx context.Context, roleID string, plan grant.Plan) error
}

// CatalogSource provides the catalog of the configured permission mode.
type CatalogSource interface {
	Discover(ctx context.Context) (*permission.Catalog, error)
	View() permission.View
}

// RoleResolver resolves the permissions of single roles.
type RoleResolver struct {
	grants   GrantReader
	catalogs CatalogSource
	cache    *cache.Cache
}

// NewRoleResolver creates a RoleResolver. The cache may be nil.
func NewRoleResolver(grants GrantReader, catalogs CatalogSource, c *cache.Cache) *RoleResolver {
	return &RoleResolver{grants: grants, catalogs: catalogs, cache: c}
}

// TrueGrantsForRole returns the authorized actions of a role per controller.
func (r *RoleResolver) TrueGrantsForRole(ctx context.Context, roleID string) (Permissions, error) {
	key := roleGrantsKey(roleID)

	return cache.Remember(ctx, r.cache, key, []string{TagRolePermissions}, func(ctx context.Context) (Permissions, error) {
		rows, err := r.grants.FindGrants(ctx, roleID, true)
		if err != nil {
			return nil, fmt.Errorf("true grants of %s: %w", roleID, err)
		}

		out := make(Permissions)
		for _, row := range rows {
			out[row.Controller] = append(out[row.Controller], row.Action)
		}

		for controller, actions := range out {
			out[controller] = dedupe(actions)
		}

		return out, nil
	})
}

// PermissionsByController returns the permission view of a role on every catalog controller.
func (r *RoleResolver) PermissionsByController(
	ctx context.Context,
	roleID string,
	trueGrants Permissions,
) (map[string]permission.ControllerPermissions, error) {
	view := r.catalogs.View()
	key := rolePermissionsKey(view.Mode().String(), roleID)

	return cache.Remember(ctx, r.cache, key, []string{TagRolePermissions},
		func(ctx context.Context) (map[string]permission.ControllerPermissions, error) {
			catalog, err := r.catalogs.Discover(ctx)
			if err != nil {
				return nil, err
			}

			out := make(map[string]permission.ControllerPermissions, len(catalog.Controllers))
			for id, ctl := range catalog.Controllers {
				out[id] = view.Grant(ctl, trueGrants[id])
			}

			return out, nil
		})
}

// AliasedPermissions returns the permission view of a role keyed by controller alias.
func (r *RoleResolver) AliasedPermissions(ctx context.Context, roleID string) (map[string]permission.AliasedController, error) {
	trueGrants, err := r.TrueGrantsForRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	byController, err := r.PermissionsByController(ctx, roleID, trueGrants)
	if err != nil {
		return nil, err
	}

	catalog, err := r.catalogs.Discover(ctx)
	if err != nil {
		return nil, err
	}

	view := r.catalogs.View()
	out := make(map[string]permission.AliasedController, len(byController))

	for id, perms := range byController {
		ctl, ok := catalog.Controller(id)
		if !ok {
			continue
		}

		out[ctl.Alias] = view.Present(ctl, perms)
	}

	return out, nil
}
