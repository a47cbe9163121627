// Package role provides CRUD operations for managing roles.
package role

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/db/query"
)

const idQueryPattern = "id = ?"

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleAlreadyExists is returned when attempting to create a role that already exists.
	ErrRoleAlreadyExists = errors.New("role already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a role by its identifier.
func Get(ctx context.Context, db *gorm.DB, id string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.Role

	result := db.WithContext(ctx).Where(idQueryPattern, id).First(&r)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, result.Error
	}

	return &r, nil
}

// Exists reports whether a role with the identifier exists.
func Exists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Role{}).Where(idQueryPattern, id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// List retrieves a page of roles, the superadmin role excluded.
func List(ctx context.Context, db *gorm.DB, p query.Params) ([]models.Role, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id <> ?", models.RoleSuperAdmin).Scopes(query.Search(p, "id", "description"))
	}

	var total int64
	if err := db.WithContext(ctx).Model(&models.Role{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []models.Role

	result := db.WithContext(ctx).
		Scopes(filter, query.Order(p, "id", "id", "description"), query.Paginate(p)).
		Find(&roles)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return roles, total, nil
}

// SelectList retrieves every role assignable to users, the superadmin role excluded.
func SelectList(ctx context.Context, db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role

	result := db.WithContext(ctx).Where("id <> ?", models.RoleSuperAdmin).Order("id").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// FindByIDs retrieves the roles with the given identifiers.
func FindByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var roles []models.Role

	result := db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// Create creates a new role in the database.
func Create(ctx context.Context, db *gorm.DB, id, description string) (*models.Role, error) {
	exists, err := Exists(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrRoleAlreadyExists
	}

	r := &models.Role{ID: id, Description: description}

	if result := db.WithContext(ctx).Create(r); result.Error != nil {
		return nil, result.Error
	}

	return r, nil
}

// Update updates the description of an existing role.
func Update(ctx context.Context, db *gorm.DB, id, description string) (*models.Role, error) {
	r, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	r.Description = description

	if result := db.WithContext(ctx).Save(r); result.Error != nil {
		return nil, result.Error
	}

	return r, nil
}
