package rbac

import "sort"

// Permissions maps controller identifiers to their sorted authorized action names.
type Permissions map[string][]string

// Has reports whether action of controller is authorized.
func (p Permissions) Has(controller, action string) bool {
	for _, a := range p[controller] {
		if a == action {
			return true
		}
	}

	return false
}

// Union returns the positive-grant-wins merge of p and other.
// The operation is commutative and idempotent; neither operand is modified.
func (p Permissions) Union(other Permissions) Permissions {
	out := make(Permissions, len(p)+len(other))

	for _, src := range []Permissions{p, other} {
		for controller, actions := range src {
			out[controller] = append(out[controller], actions...)
		}
	}

	for controller, actions := range out {
		out[controller] = dedupe(actions)
	}

	return out
}

func dedupe(actions []string) []string {
	sort.Strings(actions)

	out := actions[:0]
	for i, a := range actions {
		if i == 0 || a != actions[i-1] {
			out = append(out, a)
		}
	}

	return out
}
