package daemon

import (
	"context"

	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/cache"
	"github.com/permgate/permgate/internal/config"
	"github.com/permgate/permgate/internal/db/controller/grant"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/token"
	"github.com/permgate/permgate/internal/web"
	"github.com/permgate/permgate/internal/web/handler"
)

// Registry returns the action registry of mode holding the definitions of every
// controller of the web service. The controllers are bound to deps.
func Registry(mode permission.Mode, c *cache.Cache, deps *handler.Deps) (*permission.Registry, []handler.Service, error) {
	view, err := permission.NewView(mode)
	if err != nil {
		return nil, nil, err
	}

	registry := permission.NewRegistry(view, c)
	controllers := web.Controllers(deps)

	for _, controller := range controllers {
		registry.Register(controller.Definition())
	}

	return registry, controllers, nil
}

// Wire builds the resolvers, the checker and the web service over conn and c.
func Wire(ctx context.Context, cfg *config.Config, conn *gorm.DB, c *cache.Cache) (*web.Service, error) {
	mode, err := permission.ParseMode(cfg.Permissions.Mode)
	if err != nil {
		return nil, err
	}

	deps := &handler.Deps{
		Config:   cfg,
		DB:       conn,
		Cache:    c,
		Validate: handler.NewValidator(),
	}

	registry, controllers, err := Registry(mode, c, deps)
	if err != nil {
		return nil, err
	}

	store := grant.New(conn)
	coordinator := rbac.NewCoordinator(c)
	roles := rbac.NewRoleResolver(store, registry, c)
	users := rbac.NewUserResolver(roles, c)

	tokens, err := token.New(cfg.JWT.Secret, cfg.JWT.Issuer, users, registry, coordinator)
	if err != nil {
		return nil, err
	}

	deps.Registry = registry
	deps.Roles = roles
	deps.Users = users
	deps.Coordinator = coordinator
	deps.Reconciler = rbac.NewReconciler(store, registry, coordinator)
	deps.Tokens = tokens

	// a shared cache may hold the catalog of another build
	coordinator.CatalogChanged(ctx)

	return web.New(cfg, deps, rbac.NewChecker(users), controllers)
}
