// Package registration provides the self-service account creation endpoint.
package registration

import (
	"github.com/gofiber/fiber/v2"

	usercontroller "github.com/permgate/permgate/internal/db/controller/user"
	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/web/handler"
)

// ControllerID is the controller identifier of the registration endpoints.
const ControllerID = "RegistrationController"

// Service handles registrations.
type Service struct {
	deps *handler.Deps
}

// New creates the registration controller.
func New(deps *handler.Deps) *Service {
	return &Service{deps: deps}
}

// Definition implements handler.Service. The controller is not part of the catalog.
func (s *Service) Definition() permission.Definition {
	return permission.Definition{
		ID:    ControllerID,
		Alias: "registration",
		Actions: []permission.ActionDefinition{
			{
				Name:  "register",
				Alias: "register",
				Route: &permission.Route{Path: "/api/register", Name: "api_register", Methods: []string{fiber.MethodPost}},
			},
		},
	}
}

// Handlers implements handler.Service.
func (s *Service) Handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{"register": s.Register}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=180"`
	Password  string `json:"password" validate:"required,min=8"`
	Firstname string `json:"firstname" validate:"required,max=100"`
	Lastname  string `json:"lastname" validate:"required,max=100"`
}

// Register creates an unverified account holding the baseline role only.
func (s *Service) Register(c *fiber.Ctx) error {
	var in registerRequest
	if err := handler.Bind(c, s.deps.Validate, &in); err != nil {
		return handler.Error(c, err)
	}

	u := &models.User{Email: in.Email, Firstname: in.Firstname, Lastname: in.Lastname}
	if err := u.SetPassword(in.Password); err != nil {
		return handler.Error(c, err)
	}

	if err := usercontroller.Create(c.UserContext(), s.deps.DB, u); err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(handler.NewUserView(u))
}
