package permission

import "fmt"

// BucketGrant is the authorization state of a read or write bucket.
type BucketGrant struct {
	IsAuthorized bool `json:"is_authorized"`
}

// ControllerPermissions is the permission view of one role on one controller.
// Permissions is filled in ModeActions, Read and Write in ModeReadWrite.
type ControllerPermissions struct {
	Description string       `json:"description"`
	Permissions []string     `json:"permissions,omitempty"`
	Read        *BucketGrant `json:"read,omitempty"`
	Write       *BucketGrant `json:"write,omitempty"`
}

// AliasedAction is the external form of an action or bucket permission.
type AliasedAction struct {
	IsAuthorized bool   `json:"is_authorized"`
	Description  string `json:"description,omitempty"`
}

// AliasedController is the external form of ControllerPermissions, keyed by aliases.
type AliasedController struct {
	Description string                   `json:"description"`
	Actions     map[string]AliasedAction `json:"actions"`
}

// View is the strategy of a permission Mode.
type View interface {
	// Mode returns the mode implemented by the view.
	Mode() Mode
	// Classify builds the catalog entry of a definition. It reports false when the
	// definition has no classified action.
	Classify(def Definition) (Controller, bool)
	// Grant builds the permission view of a controller from the authorized action names.
	Grant(ctl Controller, authorized []string) ControllerPermissions
	// Present renders a permission view in its aliased form.
	Present(ctl Controller, perms ControllerPermissions) AliasedController
	// Expand maps external keys with their values to action names.
	// Unknown keys are skipped.
	Expand(ctl Controller, values map[string]bool) map[string]bool
	// ActionAlias returns the external key of an action, "" when unknown.
	ActionAlias(ctl Controller, action string) string
	// ActionNames returns the actions an external key stands for.
	ActionNames(ctl Controller, alias string) []string
}

// NewView returns the View of mode.
func NewView(mode Mode) (View, error) {
	switch mode {
	case ModeActions:
		return fineView{}, nil
	case ModeReadWrite:
		return coarseView{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}

func newAction(def Definition, a ActionDefinition, b Bucket) Action {
	return Action{
		Controller:  def.ID,
		Name:        a.Name,
		Alias:       a.Alias,
		Description: a.Description,
		Route:       a.Route,
		Bucket:      b,
	}
}
