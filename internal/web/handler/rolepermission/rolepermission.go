// Package rolepermission provides the endpoints reading and replacing the grants of a role.
package rolepermission

import (
	"github.com/gofiber/fiber/v2"

	rolecontroller "github.com/permgate/permgate/internal/db/controller/role"
	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/web/handler"
)

const (
	// ControllerID is the controller identifier of the role permission endpoints.
	ControllerID = "RolePermissionController"
	// Path is the route of the role permission endpoints.
	Path = "/api/roles/:id/permissions"
)

// Service handles role permissions.
type Service struct {
	deps *handler.Deps
}

// New creates the role permission controller.
func New(deps *handler.Deps) *Service {
	return &Service{deps: deps}
}

// Definition implements handler.Service.
func (s *Service) Definition() permission.Definition {
	return permission.Definition{
		ID:          ControllerID,
		Alias:       "rolePermissions",
		Description: "Role permissions management",
		Access: &permission.Access{
			Read:  []string{"getRolePermissions"},
			Write: []string{"updateRolePermissions"},
		},
		Actions: []permission.ActionDefinition{
			{
				Name: "getRolePermissions", Alias: "rolePermissionsList", Description: "Show role permissions",
				Route: handler.Route(Path, "api_role_permissions", fiber.MethodGet),
			},
			{
				Name: "updateRolePermissions", Alias: "rolePermissionsEdit", Description: "Edit role permissions",
				Route: handler.Route(Path, "api_role_permissions_edit", fiber.MethodPost),
			},
		},
	}
}

// Handlers implements handler.Service.
func (s *Service) Handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{
		"getRolePermissions":    s.Get,
		"updateRolePermissions": s.Update,
	}
}

// Get returns the aliased permissions of a role.
func (s *Service) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == models.RoleSuperAdmin {
		return handler.Error(c, rbac.ErrReservedRole)
	}

	exists, err := rolecontroller.Exists(c.UserContext(), s.deps.DB, id)
	if err != nil {
		return handler.Error(c, err)
	}

	if !exists {
		return handler.Error(c, rbac.ErrNotFound)
	}

	perms, err := s.deps.Roles.AliasedPermissions(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"role": id, "mode": s.deps.Registry.Mode().String(), "permissions": perms})
}

// Update replaces the grants of a role with the aliased payload of the body.
func (s *Service) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	result, err := s.deps.Reconciler.Reconcile(c.UserContext(), id, c.Body())
	if err != nil {
		return handler.Error(c, err)
	}

	perms, err := s.deps.Roles.AliasedPermissions(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"role": id, "result": result, "permissions": perms})
}
