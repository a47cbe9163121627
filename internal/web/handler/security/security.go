// Package security provides the login endpoint issuing bearer tokens.
package security

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	usercontroller "github.com/permgate/permgate/internal/db/controller/user"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/web/handler"
)

const (
	// ControllerID is the controller identifier of the login endpoint.
	ControllerID = "SecurityController"
	// Path is the login path.
	Path = "/api/login_check"

	msgBadCredentials = "Invalid credentials."
)

// Service handles logins.
type Service struct {
	deps *handler.Deps
}

// New creates the login controller.
func New(deps *handler.Deps) *Service {
	return &Service{deps: deps}
}

// Definition implements handler.Service. The controller is not part of the catalog.
func (s *Service) Definition() permission.Definition {
	return permission.Definition{
		ID:    ControllerID,
		Alias: "security",
		Actions: []permission.ActionDefinition{
			{
				Name:  "login",
				Alias: "login",
				Route: &permission.Route{Path: Path, Name: "api_login_check", Methods: []string{fiber.MethodPost}},
			},
		},
	}
}

// Handlers implements handler.Service.
func (s *Service) Handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{"login": s.Login}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks the credentials and returns a token.
func (s *Service) Login(c *fiber.Ctx) error {
	var in credentials
	if err := handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	u, err := usercontroller.GetByEmail(c.UserContext(), s.deps.DB, in.Email)

	switch {
	case errors.Is(err, usercontroller.ErrUserNotFound):
		return handler.Message(c, fiber.StatusUnauthorized, msgBadCredentials)
	case err != nil:
		return handler.Error(c, err)
	}

	if !u.VerifyPassword(in.Password) {
		return handler.Message(c, fiber.StatusUnauthorized, msgBadCredentials)
	}

	signed, err := s.deps.Tokens.Issue(c.UserContext(), u)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"token": signed})
}
