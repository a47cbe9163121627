package permission

import "sort"

// Translator converts internal identifiers to their external aliases and back.
// Unknown values translate to "".
type Translator struct {
	catalog *Catalog
	view    View
}

// NewTranslator creates a Translator over a catalog built by view.
func NewTranslator(catalog *Catalog, view View) *Translator {
	return &Translator{catalog: catalog, view: view}
}

// ControllerAlias returns the alias of a controller.
func (t *Translator) ControllerAlias(id string) string {
	ctl, _ := t.catalog.Controller(id)

	return ctl.Alias
}

// ControllerID returns the controller identifier of an alias.
func (t *Translator) ControllerID(alias string) string {
	ctl, _ := t.catalog.ControllerByAlias(alias)

	return ctl.ID
}

// ActionAlias returns the external key of an action: its alias in ModeActions, its
// bucket in ModeReadWrite.
func (t *Translator) ActionAlias(controllerID, action string) string {
	ctl, ok := t.catalog.Controller(controllerID)
	if !ok {
		return ""
	}

	return t.view.ActionAlias(ctl, action)
}

// ActionName returns the action an alias stands for. It returns "" when the alias is
// unknown or stands for several actions.
func (t *Translator) ActionName(controllerID, alias string) string {
	names := t.ActionNames(controllerID, alias)
	if len(names) != 1 {
		return ""
	}

	return names[0]
}

// ActionNames returns every action an alias stands for.
func (t *Translator) ActionNames(controllerID, alias string) []string {
	ctl, ok := t.catalog.Controller(controllerID)
	if !ok {
		return nil
	}

	return t.view.ActionNames(ctl, alias)
}

// TranslatePermissions converts controller/action permissions to their aliases.
// Entries without alias are dropped, repeated keys are reported once.
func (t *Translator) TranslatePermissions(perms map[string][]string) map[string][]string {
	out := make(map[string][]string, len(perms))

	for controllerID, actions := range perms {
		alias := t.ControllerAlias(controllerID)
		if alias == "" {
			continue
		}

		seen := make(map[string]struct{}, len(actions))

		for _, action := range actions {
			key := t.ActionAlias(controllerID, action)
			if key == "" {
				continue
			}

			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			out[alias] = append(out[alias], key)
		}

		sort.Strings(out[alias])
	}

	return out
}
