package permission

// coarseView grants the read and write buckets of a controller.
type coarseView struct{}

func (coarseView) Mode() Mode {
	return ModeReadWrite
}

// Classify skips controllers without a read/write partition and actions in neither
// bucket. Write wins when an action is listed in both.
func (coarseView) Classify(def Definition) (Controller, bool) {
	if def.Access == nil {
		return Controller{}, false
	}

	ctl := Controller{ID: def.ID, Alias: def.Alias, Description: def.Description}

	for _, a := range def.routed() {
		var b Bucket

		switch {
		case contains(def.Access.Write, a.Name):
			b = BucketWrite
		case contains(def.Access.Read, a.Name):
			b = BucketRead
		default:
			continue
		}

		ctl.Actions = append(ctl.Actions, newAction(def, a, b))
	}

	return ctl, len(ctl.Actions) > 0
}

func (coarseView) Grant(ctl Controller, authorized []string) ControllerPermissions {
	perms := ControllerPermissions{
		Description: ctl.Description,
		Read:        &BucketGrant{},
		Write:       &BucketGrant{},
	}

	for _, a := range ctl.Actions {
		if !contains(authorized, a.Name) {
			continue
		}

		switch a.Bucket {
		case BucketRead:
			perms.Read.IsAuthorized = true
		case BucketWrite:
			perms.Write.IsAuthorized = true
		}
	}

	return perms
}

func (coarseView) Present(ctl Controller, perms ControllerPermissions) AliasedController {
	return AliasedController{
		Description: ctl.Description,
		Actions: map[string]AliasedAction{
			string(BucketRead):  {IsAuthorized: perms.Read != nil && perms.Read.IsAuthorized},
			string(BucketWrite): {IsAuthorized: perms.Write != nil && perms.Write.IsAuthorized},
		},
	}
}

func (coarseView) Expand(ctl Controller, values map[string]bool) map[string]bool {
	out := make(map[string]bool)

	for _, b := range Buckets() {
		v, ok := values[string(b)]
		if !ok {
			continue
		}

		for _, a := range ctl.Bucket(b) {
			out[a.Name] = v
		}
	}

	return out
}

func (coarseView) ActionAlias(ctl Controller, action string) string {
	a, _ := ctl.Action(action)

	return string(a.Bucket)
}

func (coarseView) ActionNames(ctl Controller, alias string) []string {
	var names []string

	for _, a := range ctl.Bucket(Bucket(alias)) {
		names = append(names, a.Name)
	}

	return names
}
