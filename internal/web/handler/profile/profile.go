// Package profile provides the endpoints of the current user's own account.
package profile

import (
	"github.com/gofiber/fiber/v2"

	usercontroller "github.com/permgate/permgate/internal/db/controller/user"
	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/web/handler"
	"github.com/permgate/permgate/internal/web/middleware/authn"
)

const (
	// ControllerID is the controller identifier of the profile endpoints.
	ControllerID = "ProfileController"
	// Path is the profile path.
	Path = "/api/profile"
)

// Service handles the profile of the current user.
type Service struct {
	deps *handler.Deps
}

// New creates the profile controller.
func New(deps *handler.Deps) *Service {
	return &Service{deps: deps}
}

// Definition implements handler.Service. The controller is not part of the catalog.
func (s *Service) Definition() permission.Definition {
	return permission.Definition{
		ID:    ControllerID,
		Alias: "profile",
		Actions: []permission.ActionDefinition{
			{
				Name:  "getProfile",
				Alias: "profile",
				Route: &permission.Route{Path: Path, Name: "api_profile", Methods: []string{fiber.MethodGet}},
			},
			{
				Name:  "updateProfile",
				Alias: "profileEdit",
				Route: &permission.Route{Path: Path, Name: "api_profile_edit", Methods: []string{fiber.MethodPut}},
			},
			{
				Name:  "editProfilePassword",
				Alias: "profileEditPassword",
				Route: &permission.Route{
					Path:    Path + "/edit-password",
					Name:    "api_profile_edit_password",
					Methods: []string{fiber.MethodPost},
				},
			},
		},
	}
}

// Handlers implements handler.Service.
func (s *Service) Handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{
		"getProfile":          s.authenticated(s.Get),
		"updateProfile":       s.authenticated(s.Update),
		"editProfilePassword": s.authenticated(s.EditPassword),
	}
}

// authenticated rejects anonymous callers. The profile actions are public otherwise.
func (s *Service) authenticated(next func(*fiber.Ctx, *models.User) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := authn.CurrentUser(c)
		if u == nil {
			return handler.Message(c, fiber.StatusUnauthorized, "JWT Token not found")
		}

		return next(c, u)
	}
}

// Get returns the current user.
func (s *Service) Get(c *fiber.Ctx, u *models.User) error {
	return c.JSON(handler.NewUserView(u))
}

type updateRequest struct {
	Email     string `json:"email" validate:"required,email,max=180"`
	Firstname string `json:"firstname" validate:"required,max=100"`
	Lastname  string `json:"lastname" validate:"required,max=100"`
}

// Update changes the name and email of the current user.
func (s *Service) Update(c *fiber.Ctx, current *models.User) error {
	var in updateRequest
	if err := handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	u, err := usercontroller.Get(c.UserContext(), s.deps.DB, current.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	u.Email = in.Email
	u.Firstname = in.Firstname
	u.Lastname = in.Lastname

	if err = usercontroller.Update(c.UserContext(), s.deps.DB, u); err != nil {
		return handler.Error(c, err)
	}

	s.deps.Coordinator.UserChanged(c.UserContext(), u.ID)

	return c.JSON(handler.NewUserView(u))
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// EditPassword replaces the password of the current user.
func (s *Service) EditPassword(c *fiber.Ctx, current *models.User) error {
	var in passwordRequest
	if err := handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	u, err := usercontroller.Get(c.UserContext(), s.deps.DB, current.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	if !u.VerifyPassword(in.CurrentPassword) {
		return handler.Message(c, fiber.StatusBadRequest, "Current password is invalid")
	}

	hash, err := models.HashPassword(in.NewPassword)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = usercontroller.UpdatePassword(c.UserContext(), s.deps.DB, u.ID, hash); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
