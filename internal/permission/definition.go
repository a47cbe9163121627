package permission

import "fmt"

// Route is the HTTP route an action is mounted on.
type Route struct {
	// Path is the fiber route path, e.g. "/api/users/:id".
	Path string `json:"path"`
	// Name is the route name.
	Name string `json:"name"`
	// Methods lists the HTTP methods of the route.
	Methods []string `json:"methods"`
}

// ActionDefinition declares one controller action.
type ActionDefinition struct {
	// Name is the internal action identifier, e.g. "getUsers".
	Name string
	// Alias is the stable external name of the action, e.g. "usersList".
	Alias string
	// Description is a human-readable label.
	Description string
	// Route is the route of the action. Actions without route are not guarded actions.
	Route *Route
}

// Access partitions the actions of a controller into read and write buckets.
type Access struct {
	Read  []string
	Write []string
}

// Definition declares a controller and its actions.
type Definition struct {
	// ID is the internal controller identifier, e.g. "UserController".
	ID string
	// Alias is the stable external name of the controller, e.g. "users".
	Alias string
	// Description is a human-readable label. Controllers without description are not
	// part of the catalog.
	Description string
	// Access is the read/write partition, required by ModeReadWrite.
	Access *Access
	// Actions lists the controller actions in declaration order.
	Actions []ActionDefinition
}

// IsController reports whether the definition describes a controller at all.
func (d Definition) IsController() bool {
	return d.ID != "" && len(d.Actions) > 0
}

// routed returns the actions carrying a route.
func (d Definition) routed() []ActionDefinition {
	out := make([]ActionDefinition, 0, len(d.Actions))

	for _, a := range d.Actions {
		if a.Route != nil {
			out = append(out, a)
		}
	}

	return out
}

// validate checks the alias and name uniqueness of the guarded actions.
func (d Definition) validate() error {
	if d.Alias == "" {
		return fmt.Errorf("controller %s: %w", d.ID, ErrMissingAlias)
	}

	names := make(map[string]struct{}, len(d.Actions))
	aliases := make(map[string]struct{}, len(d.Actions))

	for _, a := range d.routed() {
		if a.Alias == "" {
			return fmt.Errorf("action %s.%s: %w", d.ID, a.Name, ErrMissingAlias)
		}

		if _, ok := names[a.Name]; ok {
			return fmt.Errorf("action %s.%s: %w", d.ID, a.Name, ErrDuplicateAction)
		}

		if _, ok := aliases[a.Alias]; ok {
			return fmt.Errorf("action %s.%s alias %q: %w", d.ID, a.Name, a.Alias, ErrDuplicateAlias)
		}

		names[a.Name] = struct{}{}
		aliases[a.Alias] = struct{}{}
	}

	return nil
}
