package permission

import "sort"

// fineView grants every action individually.
type fineView struct{}

func (fineView) Mode() Mode {
	return ModeActions
}

func (fineView) Classify(def Definition) (Controller, bool) {
	ctl := Controller{ID: def.ID, Alias: def.Alias, Description: def.Description}

	for _, a := range def.routed() {
		ctl.Actions = append(ctl.Actions, newAction(def, a, ""))
	}

	return ctl, len(ctl.Actions) > 0
}

func (fineView) Grant(ctl Controller, authorized []string) ControllerPermissions {
	perms := ControllerPermissions{Description: ctl.Description}

	if len(authorized) > 0 {
		perms.Permissions = append([]string(nil), authorized...)
		sort.Strings(perms.Permissions)
	}

	return perms
}

func (fineView) Present(ctl Controller, perms ControllerPermissions) AliasedController {
	out := AliasedController{
		Description: ctl.Description,
		Actions:     make(map[string]AliasedAction, len(ctl.Actions)),
	}

	for _, a := range ctl.Actions {
		out.Actions[a.Alias] = AliasedAction{
			IsAuthorized: contains(perms.Permissions, a.Name),
			Description:  a.Description,
		}
	}

	return out
}

func (fineView) Expand(ctl Controller, values map[string]bool) map[string]bool {
	out := make(map[string]bool, len(values))

	for alias, v := range values {
		if a, ok := ctl.ActionByAlias(alias); ok {
			out[a.Name] = v
		}
	}

	return out
}

func (fineView) ActionAlias(ctl Controller, action string) string {
	a, _ := ctl.Action(action)

	return a.Alias
}

func (fineView) ActionNames(ctl Controller, alias string) []string {
	if a, ok := ctl.ActionByAlias(alias); ok {
		return []string{a.Name}
	}

	return nil
}
