package grant

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.RolePermission{}))
	require.NoError(t, db.Create(&models.Role{ID: "ROLE_EDITOR"}).Error)

	require.NoError(t, db.Create(&[]models.RolePermission{
		{RoleID: "ROLE_EDITOR", Controller: "UserController", Action: "getUsers", IsAuthorized: true},
		{RoleID: "ROLE_EDITOR", Controller: "UserController", Action: "deleteUser", IsAuthorized: false},
	}).Error)

	return db
}

func TestFindGrants(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	all, err := s.FindGrants(ctx, "ROLE_EDITOR", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	authorized, err := s.FindGrants(ctx, "ROLE_EDITOR", true)
	require.NoError(t, err)
	require.Len(t, authorized, 1)
	assert.Equal(t, "getUsers", authorized[0].Action)

	exists, err := s.RoleExists(ctx, "ROLE_EDITOR")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReplace(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	err := s.Replace(ctx, "ROLE_EDITOR", func(existing []models.RolePermission) ([]models.RolePermission, []models.RolePermission, error) {
		var upsert, remove []models.RolePermission

		for _, g := range existing {
			if g.Action == "getUsers" {
				g.IsAuthorized = false
				upsert = append(upsert, g)
			} else {
				remove = append(remove, g)
			}
		}

		upsert = append(upsert, models.RolePermission{Controller: "RoleController", Action: "getRoles", IsAuthorized: true})

		return upsert, remove, nil
	})
	require.NoError(t, err)

	grants, err := s.FindGrants(ctx, "ROLE_EDITOR", false)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, "RoleController", grants[0].Controller)
	assert.True(t, grants[0].IsAuthorized)
	assert.Equal(t, "getUsers", grants[1].Action)
	assert.False(t, grants[1].IsAuthorized)
}

func TestReplaceRollsBack(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()
	errPlan := errors.New("invalid plan")

	err := s.Replace(ctx, "ROLE_EDITOR", func(existing []models.RolePermission) ([]models.RolePermission, []models.RolePermission, error) {
		return nil, existing, errPlan
	})
	require.ErrorIs(t, err, errPlan)

	grants, err := s.FindGrants(ctx, "ROLE_EDITOR", false)
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}

func TestNilDB(t *testing.T) {
	_, err := New(nil).FindGrants(context.Background(), "ROLE_EDITOR", false)
	require.ErrorIs(t, err, ErrDBNil)
}
