package rbac

import (
	"bytes"
	"context"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/permgate/permgate/internal/db/models"
)

// ReconcileResult summarizes a grant replacement.
type ReconcileResult struct {
	// Persisted is the number of grants of the role after the replacement.
	Persisted int `json:"persisted"`
	// Changed is the number of created or updated grants.
	Changed int `json:"changed"`
	// Removed is the number of deleted grants.
	Removed int `json:"removed"`
}

// Reconciler replaces the grants of a role from an aliased payload.
type Reconciler struct {
	store       GrantStore
	catalogs    CatalogSource
	coordinator *Coordinator
}

// NewReconciler creates a Reconciler.
func NewReconciler(store GrantStore, catalogs CatalogSource, coordinator *Coordinator) *Reconciler {
	return &Reconciler{store: store, catalogs: catalogs, coordinator: coordinator}
}

// Reconcile makes the payload the complete grant set of roleID.
//
// The payload maps controller aliases to objects of action aliases (or "read"/"write"
// buckets) with boolean values, e.g. {"users": {"usersList": true}}. Grants of the role
// absent from the payload are deleted. Unknown action aliases are skipped.
func (r *Reconciler) Reconcile(ctx context.Context, roleID string, payload []byte) (*ReconcileResult, error) {
	if roleID == models.RoleSuperAdmin {
		return nil, ErrReservedRole
	}

	exists, err := r.store.RoleExists(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, ErrNotFound
	}

	desired, err := r.desiredGrants(ctx, payload)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}

	err = r.store.Replace(ctx, roleID, func(existing []models.RolePermission) ([]models.RolePermission, []models.RolePermission, error) {
		upsert, remove := planGrants(existing, desired)

		result.Changed = len(upsert)
		result.Removed = len(remove)

		return upsert, remove, nil
	})
	if err != nil {
		return nil, err
	}

	for _, actions := range desired {
		result.Persisted += len(actions)
	}

	r.coordinator.GrantsChanged(ctx, roleID)

	return result, nil
}

// desiredGrants validates the payload and translates it to controller/action values.
// Keys are visited in sorted order so that the reported violation is stable.
func (r *Reconciler) desiredGrants(ctx context.Context, payload []byte) (map[string]map[string]bool, error) {
	var controllers map[string]json.RawMessage
	if err := json.Unmarshal(payload, &controllers); err != nil || controllers == nil {
		return nil, &ValidationError{Message: "invalid JSON format"}
	}

	catalog, err := r.catalogs.Discover(ctx)
	if err != nil {
		return nil, err
	}

	view := r.catalogs.View()
	desired := make(map[string]map[string]bool, len(controllers))

	for _, alias := range sortedKeys(controllers) {
		ctl, ok := catalog.ControllerByAlias(alias)
		if !ok {
			return nil, &ValidationError{Key: alias, Message: "unknown controller"}
		}

		var leaves map[string]json.RawMessage
		if err = json.Unmarshal(controllers[alias], &leaves); err != nil || leaves == nil {
			return nil, &ValidationError{Key: alias, Message: "actions must be an object"}
		}

		values := make(map[string]bool, len(leaves))

		for _, key := range sortedKeys(leaves) {
			v, isBool := boolean(leaves[key])
			if !isBool {
				return nil, &ValidationError{Key: alias + "." + key, Message: "value must be a boolean"}
			}

			values[key] = v
		}

		expanded := view.Expand(ctl, values)
		if len(expanded) == 0 {
			continue
		}

		desired[ctl.ID] = expanded
	}

	return desired, nil
}

// planGrants diffs the existing grants of a role against the desired values.
// Existing grants with the desired value are left untouched.
func planGrants(existing []models.RolePermission, desired map[string]map[string]bool) (upsert, remove []models.RolePermission) {
	type slot struct{ controller, action string }

	index := make(map[slot]models.RolePermission, len(existing))

	for _, g := range existing {
		s := slot{g.Controller, g.Action}
		if _, dup := index[s]; dup {
			remove = append(remove, g)
			continue
		}

		index[s] = g
	}

	for _, controller := range sortedKeys(desired) {
		actions := desired[controller]

		for _, action := range sortedKeys(actions) {
			value := actions[action]
			s := slot{controller, action}

			g, ok := index[s]
			delete(index, s)

			switch {
			case !ok:
				upsert = append(upsert, models.RolePermission{Controller: controller, Action: action, IsAuthorized: value})
			case g.IsAuthorized != value:
				g.IsAuthorized = value
				upsert = append(upsert, g)
			}
		}
	}

	stale := make([]models.RolePermission, 0, len(index))
	for _, g := range index {
		stale = append(stale, g)
	}

	sort.Slice(stale, func(i, j int) bool { return stale[i].ID < stale[j].ID })

	return upsert, append(remove, stale...)
}

func boolean(raw json.RawMessage) (value, ok bool) {
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
