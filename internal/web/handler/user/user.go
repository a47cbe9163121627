// Package user provides the user administration endpoints.
package user

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/permgate/permgate/internal/cache"
	rolecontroller "github.com/permgate/permgate/internal/db/controller/role"
	usercontroller "github.com/permgate/permgate/internal/db/controller/user"
	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/db/query"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/web/handler"
)

const (
	// ControllerID is the controller identifier of the user endpoints.
	ControllerID = "UserController"
	// Path is the base path of the user endpoints.
	Path = "/api/users"

	selectListKey = "rolesSelectList"

	msgReservedUser = "operation forbidden on this user"
	msgUnknownRole  = "unknown role"
)

// Service handles user administration.
type Service struct {
	deps *handler.Deps
}

// New creates the user controller.
func New(deps *handler.Deps) *Service {
	return &Service{deps: deps}
}

// Definition implements handler.Service.
func (s *Service) Definition() permission.Definition {
	return permission.Definition{
		ID:          ControllerID,
		Alias:       "users",
		Description: "Users management",
		Access: &permission.Access{
			Read:  []string{"getRolesListForUsers", "getUsers", "getUserDetails"},
			Write: []string{"createUser", "updateUser", "editUserPassword", "deleteUser"},
		},
		Actions: []permission.ActionDefinition{
			{
				Name: "getRolesListForUsers", Alias: "usersRolesList", Description: "List assignable roles",
				Route: handler.Route(Path+"/roles", "api_users_roles", fiber.MethodGet),
			},
			{
				Name: "getUsers", Alias: "usersList", Description: "List users",
				Route: handler.Route(Path, "api_users_list", fiber.MethodGet),
			},
			{
				Name: "getUserDetails", Alias: "userDetails", Description: "Show user details",
				Route: handler.Route(Path+"/:id", "api_users_details", fiber.MethodGet),
			},
			{
				Name: "createUser", Alias: "userCreate", Description: "Create users",
				Route: handler.Route(Path, "api_users_create", fiber.MethodPost),
			},
			{
				Name: "updateUser", Alias: "userEdit", Description: "Edit users",
				Route: handler.Route(Path+"/:id", "api_users_edit", fiber.MethodPut),
			},
			{
				Name: "editUserPassword", Alias: "userEditPassword", Description: "Change user passwords",
				Route: handler.Route(Path+"/:id/edit-password", "api_users_edit_password", fiber.MethodPost),
			},
			{
				Name: "deleteUser", Alias: "userDelete", Description: "Delete users",
				Route: handler.Route(Path+"/:id", "api_users_delete", fiber.MethodDelete),
			},
		},
	}
}

// Handlers implements handler.Service.
func (s *Service) Handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{
		"getRolesListForUsers": s.RolesList,
		"getUsers":             s.List,
		"getUserDetails":       s.Details,
		"createUser":           s.Create,
		"updateUser":           s.Update,
		"editUserPassword":     s.EditPassword,
		"deleteUser":           s.Delete,
	}
}

// RolesList returns the roles assignable to users.
func (s *Service) RolesList(c *fiber.Ctx) error {
	roles, err := cache.Remember(c.UserContext(), s.deps.Cache, selectListKey, []string{rbac.TagRoles},
		func(ctx context.Context) ([]models.Role, error) {
			return rolecontroller.SelectList(ctx, s.deps.DB)
		})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(roles)
}

// List returns a page of users.
func (s *Service) List(c *fiber.Ctx) error {
	p := usercontroller.ListParams{
		Params:     handler.ListParams(c),
		Role:       c.Query("role"),
		IsVerified: c.Query("is_verified"),
	}

	users, total, err := usercontroller.List(c.UserContext(), s.deps.DB, p)
	if err != nil {
		return handler.Error(c, err)
	}

	items := make([]handler.UserView, 0, len(users))
	for i := range users {
		items = append(items, handler.NewUserView(&users[i]))
	}

	return c.JSON(fiber.Map{"items": items, "pagination": query.Build(p.Params, total)})
}

// target loads the user addressed by the id parameter. Superadmins are rejected.
func (s *Service) target(c *fiber.Ctx) (*models.User, error) {
	id, err := handler.ParseID(c)
	if err != nil {
		return nil, err
	}

	u, err := usercontroller.Get(c.UserContext(), s.deps.DB, id)
	if err != nil {
		return nil, err
	}

	if u.IsSuperAdmin() {
		return nil, &rbac.ValidationError{Message: msgReservedUser}
	}

	return u, nil
}

// Details returns one user.
func (s *Service) Details(c *fiber.Ctx) error {
	u, err := s.target(c)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(handler.NewUserView(u))
}

type createRequest struct {
	Email      string   `json:"email" validate:"required,email,max=180"`
	Password   string   `json:"password" validate:"required,min=8"`
	Firstname  string   `json:"firstname" validate:"required,max=100"`
	Lastname   string   `json:"lastname" validate:"required,max=100"`
	IsVerified bool     `json:"is_verified"`
	Roles      []string `json:"roles" validate:"dive,role_id"`
}

// Create creates a user.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createRequest
	if err := handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	if err := s.checkRoles(c.UserContext(), in.Roles); err != nil {
		return handler.Error(c, err)
	}

	u := &models.User{Email: in.Email, Firstname: in.Firstname, Lastname: in.Lastname, IsVerified: in.IsVerified}
	u.SetRoles(in.Roles)

	if err := u.SetPassword(in.Password); err != nil {
		return handler.Error(c, err)
	}

	if err := usercontroller.Create(c.UserContext(), s.deps.DB, u); err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(handler.NewUserView(u))
}

type updateRequest struct {
	Email      string   `json:"email" validate:"required,email,max=180"`
	Firstname  string   `json:"firstname" validate:"required,max=100"`
	Lastname   string   `json:"lastname" validate:"required,max=100"`
	IsVerified bool     `json:"is_verified"`
	Roles      []string `json:"roles" validate:"dive,role_id"`
}

// Update edits a user. Role changes take effect on the next request of the user.
func (s *Service) Update(c *fiber.Ctx) error {
	u, err := s.target(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var in updateRequest
	if err = handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	if err = s.checkRoles(c.UserContext(), in.Roles); err != nil {
		return handler.Error(c, err)
	}

	u.Email = in.Email
	u.Firstname = in.Firstname
	u.Lastname = in.Lastname
	u.IsVerified = in.IsVerified
	u.SetRoles(in.Roles)

	if err = usercontroller.Update(c.UserContext(), s.deps.DB, u); err != nil {
		return handler.Error(c, err)
	}

	s.deps.Coordinator.UserChanged(c.UserContext(), u.ID)

	return c.JSON(handler.NewUserView(u))
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// EditPassword replaces the password of a user.
func (s *Service) EditPassword(c *fiber.Ctx) error {
	u, err := s.target(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var in passwordRequest
	if err = handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = usercontroller.UpdatePassword(c.UserContext(), s.deps.DB, u.ID, hash); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	u, err := s.target(c)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = usercontroller.Delete(c.UserContext(), s.deps.DB, u.ID); err != nil {
		return handler.Error(c, err)
	}

	s.deps.Coordinator.UserChanged(c.UserContext(), u.ID)

	return c.SendStatus(fiber.StatusNoContent)
}

// checkRoles rejects unknown roles and the superadmin role.
func (s *Service) checkRoles(ctx context.Context, ids []string) error {
	wanted := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == models.RoleSuperAdmin {
			return &rbac.ValidationError{Key: "roles", Message: msgUnknownRole}
		}

		if id != models.RoleUser {
			wanted = append(wanted, id)
		}
	}

	found, err := rolecontroller.FindByIDs(ctx, s.deps.DB, wanted)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(found))
	for _, r := range found {
		known[r.ID] = struct{}{}
	}

	for _, id := range wanted {
		if _, ok := known[id]; !ok {
			return &rbac.ValidationError{Key: "roles", Message: msgUnknownRole}
		}
	}

	return nil
}
