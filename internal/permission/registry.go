package permission

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/permgate/permgate/internal/cache"
)

// TagControllers tags every cached catalog.
const TagControllers = "controllersCache"

// Registry collects controller definitions and classifies them into catalogs.
type Registry struct {
	view  View
	cache *cache.Cache

	mu   sync.RWMutex
	defs []Definition
}

// NewRegistry creates a Registry classifying with view. The cache may be nil.
func NewRegistry(view View, c *cache.Cache) *Registry {
	return &Registry{view: view, cache: c}
}

// Register adds definitions to the registry.
func (r *Registry) Register(defs ...Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs = append(r.defs, defs...)
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Definition(nil), r.defs...)
}

// View returns the view of the configured mode.
func (r *Registry) View() View {
	return r.view
}

// Mode returns the configured mode.
func (r *Registry) Mode() Mode {
	return r.view.Mode()
}

// Discover returns the catalog of the configured mode.
// The result is shared and must not be modified.
func (r *Registry) Discover(ctx context.Context) (*Catalog, error) {
	key := "catalog-" + r.view.Mode().String()

	return cache.Remember(ctx, r.cache, key, []string{TagControllers}, func(context.Context) (*Catalog, error) {
		return r.classify(), nil
	})
}

// Translator returns a Translator over the current catalog.
func (r *Registry) Translator(ctx context.Context) (*Translator, error) {
	catalog, err := r.Discover(ctx)
	if err != nil {
		return nil, err
	}

	return NewTranslator(catalog, r.view), nil
}

func (r *Registry) classify() *Catalog {
	catalog := &Catalog{
		Mode:        r.view.Mode(),
		Controllers: make(map[string]Controller),
	}
	aliases := make(map[string]string)

	for _, def := range r.Definitions() {
		if !def.IsController() || def.Description == "" {
			log.Debug().Str("controller", def.ID).Msg("skipping undescribed controller")
			continue
		}

		if err := def.validate(); err != nil {
			log.Error().Err(err).Str("controller", def.ID).Msg("excluding controller from catalog")
			continue
		}

		if _, ok := catalog.Controllers[def.ID]; ok {
			log.Error().Str("controller", def.ID).Msg("excluding controller registered twice")
			continue
		}

		if owner, ok := aliases[def.Alias]; ok {
			log.Error().
				Err(ErrDuplicateAlias).
				Str("controller", def.ID).
				Str("alias", def.Alias).
				Str("owner", owner).
				Msg("excluding controller from catalog")

			continue
		}

		ctl, ok := r.view.Classify(def)
		if !ok {
			log.Debug().Str("controller", def.ID).Str("mode", r.view.Mode().String()).
				Msg("skipping controller without classified action")

			continue
		}

		aliases[def.Alias] = def.ID
		catalog.Controllers[def.ID] = ctl
	}

	return catalog
}
