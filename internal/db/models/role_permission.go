package models

// RolePermission is the grant of one controller action to a role.
// At most one grant exists per (role, controller, action); a missing grant denies.
type RolePermission struct {
	// ID is the unique identifier of the grant.
	ID uint `gorm:"primaryKey" json:"-"`
	// RoleID is the identifier of the granted role.
	RoleID string `gorm:"size:20;not null;uniqueIndex:idx_role_controller_action" json:"role"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	// Controller is the internal controller identifier, e.g. "UserController".
	Controller string `gorm:"size:100;not null;uniqueIndex:idx_role_controller_action" json:"controller"`
	// Action is the internal action identifier, e.g. "getUsers".
	Action string `gorm:"size:100;not null;uniqueIndex:idx_role_controller_action" json:"action"`
	// IsAuthorized tells whether the action is allowed.
	IsAuthorized bool `gorm:"not null;default:false" json:"is_authorized"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
