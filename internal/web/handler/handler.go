// Package handler holds the shared plumbing of the controller handlers.
package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/cache"
	"github.com/permgate/permgate/internal/config"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/token"
)

// ErrMissingHandler is returned by Mount when a routed action has no handler.
var ErrMissingHandler = errors.New("no handler for routed action")

// Deps are the collaborators of the controller handlers.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Cache
	Registry    *permission.Registry
	Roles       *rbac.RoleResolver
	Users       *rbac.UserResolver
	Reconciler  *rbac.Reconciler
	Coordinator *rbac.Coordinator
	Tokens      *token.Issuer
	Validate    *validator.Validate
}

// Guarder wraps a handler with the access decision of a controller action.
type Guarder interface {
	Guard(controllerID, action string, h fiber.Handler) fiber.Handler
}

// Service is a controller: its definition and the handlers of its actions.
type Service interface {
	Definition() permission.Definition
	Handlers() map[string]fiber.Handler
}

// Mount adds a guarded route for every routed action of the controller of s.
func Mount(r fiber.Router, guard Guarder, s Service) error {
	def := s.Definition()
	handlers := s.Handlers()

	for _, a := range def.Actions {
		if a.Route == nil {
			continue
		}

		h, ok := handlers[a.Name]
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrMissingHandler, def.ID, a.Name)
		}

		guarded := guard.Guard(def.ID, a.Name, h)

		for _, method := range a.Route.Methods {
			r.Add(method, a.Route.Path, guarded).Name(a.Route.Name)
		}
	}

	return nil
}

// Route returns a route definition.
func Route(path, name string, methods ...string) *permission.Route {
	return &permission.Route{Path: path, Name: name, Methods: methods}
}
