// Package models contains database model definitions.
package models

import "time"

const (
	// RoleSuperAdmin is the reserved role bypassing every permission check.
	// It is never listed, edited or granted permissions.
	RoleSuperAdmin = "ROLE_SUPERADMIN"
	// RoleUser is the baseline role implicitly held by every user.
	RoleUser = "ROLE_USER"
)

// Role represents a role in the role-based access control (RBAC) system.
// Roles hold grants on controller actions and are assigned to users by identifier.
type Role struct {
	// ID is the role identifier, e.g. "ROLE_EDITOR".
	ID string `gorm:"primaryKey;size:20" json:"id"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:50" json:"description"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"-"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// IsSuperAdmin reports whether the role is the reserved superadmin role.
func (r Role) IsSuperAdmin() bool {
	return r.ID == RoleSuperAdmin
}
