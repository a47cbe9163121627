// Package role provides the role administration endpoints.
package role

import (
	"github.com/gofiber/fiber/v2"

	rolecontroller "github.com/permgate/permgate/internal/db/controller/role"
	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/db/query"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/web/handler"
)

const (
	// ControllerID is the controller identifier of the role endpoints.
	ControllerID = "RoleController"
	// Path is the base path of the role endpoints.
	Path = "/api/roles"
)

// Service handles role administration.
type Service struct {
	deps *handler.Deps
}

// New creates the role controller.
func New(deps *handler.Deps) *Service {
	return &Service{deps: deps}
}

// Definition implements handler.Service.
func (s *Service) Definition() permission.Definition {
	return permission.Definition{
		ID:          ControllerID,
		Alias:       "roles",
		Description: "Roles management",
		Access: &permission.Access{
			Read:  []string{"getRoles", "getRoleDetails"},
			Write: []string{"createRole", "updateRole"},
		},
		Actions: []permission.ActionDefinition{
			{
				Name: "getRoles", Alias: "rolesList", Description: "List roles",
				Route: handler.Route(Path, "api_roles_list", fiber.MethodGet),
			},
			{
				Name: "getRoleDetails", Alias: "roleDetails", Description: "Show role details",
				Route: handler.Route(Path+"/:id", "api_roles_details", fiber.MethodGet),
			},
			{
				Name: "createRole", Alias: "roleCreate", Description: "Create roles",
				Route: handler.Route(Path, "api_roles_create", fiber.MethodPost),
			},
			{
				Name: "updateRole", Alias: "roleEdit", Description: "Edit roles",
				Route: handler.Route(Path+"/:id", "api_roles_edit", fiber.MethodPut),
			},
		},
	}
}

// Handlers implements handler.Service.
func (s *Service) Handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{
		"getRoles":       s.List,
		"getRoleDetails": s.Details,
		"createRole":     s.Create,
		"updateRole":     s.Update,
	}
}

// List returns a page of roles, the superadmin role excluded.
func (s *Service) List(c *fiber.Ctx) error {
	p := handler.ListParams(c)

	roles, total, err := rolecontroller.List(c.UserContext(), s.deps.DB, p)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"items": roles, "pagination": query.Build(p, total)})
}

// Details returns one role.
func (s *Service) Details(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == models.RoleSuperAdmin {
		return handler.Error(c, rbac.ErrReservedRole)
	}

	r, err := rolecontroller.Get(c.UserContext(), s.deps.DB, id)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(r)
}

type createRequest struct {
	ID          string `json:"id" validate:"required,role_id"`
	Description string `json:"description" validate:"required,max=50"`
}

// Create creates a role without grants.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createRequest
	if err := handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	r, err := rolecontroller.Create(c.UserContext(), s.deps.DB, in.ID, in.Description)
	if err != nil {
		return handler.Error(c, err)
	}

	s.deps.Coordinator.RolesChanged(c.UserContext())

	return c.Status(fiber.StatusCreated).JSON(r)
}

type updateRequest struct {
	Description string `json:"description" validate:"required,max=50"`
}

// Update changes the description of a role.
func (s *Service) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == models.RoleSuperAdmin {
		return handler.Error(c, rbac.ErrReservedRole)
	}

	var in updateRequest
	if err := handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	r, err := rolecontroller.Update(c.UserContext(), s.deps.DB, id, in.Description)
	if err != nil {
		return handler.Error(c, err)
	}

	s.deps.Coordinator.RolesChanged(c.UserContext())

	return c.JSON(r)
}
