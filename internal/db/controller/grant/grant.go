// Package grant stores the role permission grants.
package grant

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/permgate/permgate/internal/db/controller/role"
	"github.com/permgate/permgate/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Plan computes, from the existing grants of a role, the grants to create or update and
// the grants to delete. A returned error aborts the replacement.
type Plan func(existing []models.RolePermission) (upsert, remove []models.RolePermission, err error)

// Store is the gorm backed grant table.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindGrants returns the grants of a role, optionally only the authorized ones.
func (s *Store) FindGrants(ctx context.Context, roleID string, authorizedOnly bool) ([]models.RolePermission, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	tx := s.db.WithContext(ctx).Where("role_id = ?", roleID)
	if authorizedOnly {
		tx = tx.Where("is_authorized = ?", true)
	}

	var grants []models.RolePermission
	if err := tx.Order("controller, action").Find(&grants).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to load grants of role %s", roleID)
	}

	return grants, nil
}

// RoleExists reports whether the role exists.
func (s *Store) RoleExists(ctx context.Context, roleID string) (bool, error) {
	return role.Exists(ctx, s.db, roleID) //nolint:wrapcheck
}

// Replace applies plan to the grants of a role in one transaction.
func (s *Store) Replace(ctx context.Context, roleID string, plan Plan) error {
	if s.db == nil {
		return ErrDBNil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.RolePermission
		if err := tx.Where("role_id = ?", roleID).Find(&existing).Error; err != nil {
			return errors.Wrap(err, "failed to load existing grants")
		}

		upsert, remove, err := plan(existing)
		if err != nil {
			return err
		}

		for i := range upsert {
			upsert[i].RoleID = roleID
			if err = tx.Omit(clause.Associations).Save(&upsert[i]).Error; err != nil {
				return errors.Wrapf(err, "failed to save grant %s.%s", upsert[i].Controller, upsert[i].Action)
			}
		}

		if len(remove) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(remove))
		for _, g := range remove {
			ids = append(ids, g.ID)
		}

		if err = tx.Where("role_id = ? AND id IN ?", roleID, ids).Delete(&models.RolePermission{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete stale grants")
		}

		return nil
	})

	return err //nolint:wrapcheck
}
