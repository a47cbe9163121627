// Package catalog exposes the controller catalog to administration clients.
package catalog

import (
	"github.com/gofiber/fiber/v2"

	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/web/handler"
)

// ControllerID is the controller identifier of the catalog endpoint.
const ControllerID = "CatalogController"

// Service serves the catalog.
type Service struct {
	deps *handler.Deps
}

// New creates the catalog controller.
func New(deps *handler.Deps) *Service {
	return &Service{deps: deps}
}

// Definition implements handler.Service.
func (s *Service) Definition() permission.Definition {
	return permission.Definition{
		ID:          ControllerID,
		Alias:       "catalog",
		Description: "Permission catalog",
		Access:      &permission.Access{Read: []string{"getControllers"}},
		Actions: []permission.ActionDefinition{
			{
				Name: "getControllers", Alias: "controllersList", Description: "List controllers",
				Route: handler.Route("/api/controllers", "api_controllers", fiber.MethodGet),
			},
		},
	}
}

// Handlers implements handler.Service.
func (s *Service) Handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{"getControllers": s.List}
}

// List returns the controllers of the catalog sorted by identifier.
func (s *Service) List(c *fiber.Ctx) error {
	catalog, err := s.deps.Registry.Discover(c.UserContext())
	if err != nil {
		return handler.Error(c, err)
	}

	controllers := make([]permission.Controller, 0, len(catalog.Controllers))
	for _, id := range catalog.IDs() {
		controllers = append(controllers, catalog.Controllers[id])
	}

	return c.JSON(fiber.Map{"mode": catalog.Mode.String(), "controllers": controllers})
}
