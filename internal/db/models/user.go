package models

import (
	"sort"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents a user account in the system.
// Users authenticate with email and password and hold a list of role identifiers.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Email is the unique login of the user.
	Email string `gorm:"unique;size:180;not null" json:"email"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// Firstname is the user's first or given name.
	Firstname string `gorm:"size:100" json:"firstname"`
	// Lastname is the user's last or family name.
	Lastname string `gorm:"size:100" json:"lastname"`
	// IsVerified tells whether the email address has been verified.
	IsVerified bool `gorm:"not null;default:false" json:"is_verified"`
	// DeclaredRoles are the roles assigned to the user, without the baseline role.
	DeclaredRoles []string `gorm:"column:roles;serializer:json" json:"roles,omitempty"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// Roles returns the sorted, deduplicated roles of the user, RoleUser included.
func (u *User) Roles() []string {
	seen := map[string]struct{}{RoleUser: {}}
	roles := []string{RoleUser}

	for _, r := range u.DeclaredRoles {
		if _, ok := seen[r]; ok || r == "" {
			continue
		}

		seen[r] = struct{}{}
		roles = append(roles, r)
	}

	sort.Strings(roles)

	return roles
}

// SetRoles replaces the declared roles. The baseline role is not stored.
func (u *User) SetRoles(roles []string) {
	u.DeclaredRoles = nil

	for _, r := range roles {
		if r != RoleUser {
			u.DeclaredRoles = append(u.DeclaredRoles, r)
		}
	}
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles() {
		if r == role {
			return true
		}
	}

	return false
}

// IsSuperAdmin reports whether the user holds the superadmin role.
func (u *User) IsSuperAdmin() bool {
	return u.HasRole(RoleSuperAdmin)
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// SetPassword hashes password and stores it on the user.
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	u.Password = hash

	return nil
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
