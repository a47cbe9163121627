// Package user provides CRUD operations for managing user accounts.
package user

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/db/query"
)

// likeEscaper escapes role ids for LIKE patterns using ESCAPE '!'.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`) //nolint:gochecknoglobals

var (
	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when attempting to use an email that belongs to another user.
	ErrEmailExists = errors.New("user with email already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ListParams are the filters of List.
type ListParams struct {
	query.Params
	// Role restricts the list to holders of a role.
	Role string `query:"role"`
	// IsVerified restricts the list to verified ("1") or unverified ("0") users.
	IsVerified string `query:"is_verified"`
}

// Get retrieves a user by its ID.
func Get(ctx context.Context, db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.WithContext(ctx).First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// GetByEmail retrieves a user by its email.
func GetByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.WithContext(ctx).Where("email = ?", email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// List retrieves a page of users, superadmins excluded.
func List(ctx context.Context, db *gorm.DB, p ListParams) ([]models.User, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("(roles IS NULL OR roles NOT LIKE ? ESCAPE '!')", rolePattern(models.RoleSuperAdmin)).
			Scopes(query.Search(p.Params, "lastname", "firstname", "email"))

		switch p.IsVerified {
		case "0":
			tx = tx.Where("is_verified = ?", false)
		case "1":
			tx = tx.Where("is_verified = ?", true)
		}

		// every user holds the baseline role, it is never stored
		if p.Role != "" && p.Role != models.RoleUser {
			tx = tx.Where("roles LIKE ? ESCAPE '!'", rolePattern(p.Role))
		}

		return tx
	}

	var total int64
	if err := db.WithContext(ctx).Model(&models.User{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User

	result := db.WithContext(ctx).
		Scopes(filter, query.Order(p.Params, "id", "id", "email", "lastname", "firstname"), query.Paginate(p.Params)).
		Find(&users)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return users, total, nil
}

// rolePattern matches the JSON encoded roles column holding role.
func rolePattern(role string) string {
	return `%"` + likeEscaper.Replace(role) + `"%`
}

// Create creates a new user in the database.
func Create(ctx context.Context, db *gorm.DB, u *models.User) error {
	if err := ensureEmailFree(ctx, db, u.Email, 0); err != nil {
		return err
	}

	return db.WithContext(ctx).Create(u).Error
}

// Update saves an existing user.
func Update(ctx context.Context, db *gorm.DB, u *models.User) error {
	if err := ensureEmailFree(ctx, db, u.Email, u.ID); err != nil {
		return err
	}

	return db.WithContext(ctx).Save(u).Error
}

// UpdatePassword stores a new password hash for the user.
func UpdatePassword(ctx context.Context, db *gorm.DB, id uint64, hash string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete deletes a user by ID.
func Delete(ctx context.Context, db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Count returns the number of users.
func Count(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error

	return count, err
}

func ensureEmailFree(ctx context.Context, db *gorm.DB, email string, owner uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var count int64

	result := db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, owner).Count(&count)
	if result.Error != nil {
		return result.Error
	}

	if count > 0 {
		return ErrEmailExists
	}

	return nil
}
