package permission

import "sort"

// Bucket is the access classification of an action in ModeReadWrite.
type Bucket string

const (
	// BucketRead holds the actions reading a resource.
	BucketRead Bucket = "read"
	// BucketWrite holds the actions modifying a resource.
	BucketWrite Bucket = "write"
)

// Buckets lists the buckets in presentation order.
func Buckets() []Bucket {
	return []Bucket{BucketRead, BucketWrite}
}

// Action is a classified controller action.
type Action struct {
	Controller  string `json:"controller"`
	Name        string `json:"action"`
	Alias       string `json:"alias"`
	Description string `json:"description"`
	Route       *Route `json:"route,omitempty"`
	Bucket      Bucket `json:"bucket,omitempty"`
}

// Controller is a catalog entry.
type Controller struct {
	ID          string   `json:"id"`
	Alias       string   `json:"alias"`
	Description string   `json:"description"`
	Actions     []Action `json:"actions"`
}

// Action returns the action with the given name.
func (c Controller) Action(name string) (Action, bool) {
	for _, a := range c.Actions {
		if a.Name == name {
			return a, true
		}
	}

	return Action{}, false
}

// ActionByAlias returns the action with the given alias.
func (c Controller) ActionByAlias(alias string) (Action, bool) {
	for _, a := range c.Actions {
		if a.Alias == alias {
			return a, true
		}
	}

	return Action{}, false
}

// Bucket returns the actions classified in b.
func (c Controller) Bucket(b Bucket) []Action {
	var out []Action

	for _, a := range c.Actions {
		if a.Bucket == b {
			out = append(out, a)
		}
	}

	return out
}

// Catalog is the set of guarded controllers for one Mode.
type Catalog struct {
	Mode        Mode                  `json:"mode"`
	Controllers map[string]Controller `json:"controllers"`
}

// Controller returns the controller with the given identifier.
func (c *Catalog) Controller(id string) (Controller, bool) {
	if c == nil {
		return Controller{}, false
	}

	ctl, ok := c.Controllers[id]

	return ctl, ok
}

// ControllerByAlias returns the controller with the given alias.
func (c *Catalog) ControllerByAlias(alias string) (Controller, bool) {
	if c == nil || alias == "" {
		return Controller{}, false
	}

	for _, ctl := range c.Controllers {
		if ctl.Alias == alias {
			return ctl, true
		}
	}

	return Controller{}, false
}

// IDs returns the sorted controller identifiers.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}

	ids := make([]string, 0, len(c.Controllers))
	for id := range c.Controllers {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
