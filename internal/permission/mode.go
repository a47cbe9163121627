package permission

import "fmt"

// Mode selects the granularity of role permissions.
type Mode string

const (
	// ModeActions grants every controller action individually.
	ModeActions Mode = "actions"
	// ModeReadWrite grants the read and write buckets of a controller.
	ModeReadWrite Mode = "read-write"
)

// ParseMode parses a configured mode. An empty value selects ModeActions.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeActions:
		return ModeActions, nil
	case ModeReadWrite:
		return ModeReadWrite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	return string(m)
}
