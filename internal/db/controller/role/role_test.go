package role

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/db/query"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Role{}), "failed to migrate test database")

	for _, r := range []models.Role{
		{ID: models.RoleSuperAdmin, Description: "Super admin"},
		{ID: models.RoleUser, Description: "User"},
		{ID: "ROLE_EDITOR", Description: "Editor"},
	} {
		require.NoError(t, db.Create(&r).Error, "failed to seed test data")
	}

	return db
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            string
		expectedError error
	}{
		{name: "nil database", id: "ROLE_EDITOR", expectedError: ErrDBNil},
		{name: "role not found", dbParam: db, id: "ROLE_NOPE", expectedError: ErrRoleNotFound},
		{name: "successful get", dbParam: db, id: "ROLE_EDITOR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Get(ctx, tc.dbParam, tc.id)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Editor", r.Description)
		})
	}
}

func TestListExcludesSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	roles, total, err := List(ctx, db, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "ROLE_EDITOR", roles[0].ID)

	roles, total, err = List(ctx, db, query.Params{Search: "edit"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, roles, 1)

	roles, err = SelectList(ctx, db)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestCreateAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := Create(ctx, db, "ROLE_EDITOR", "dup")
	require.ErrorIs(t, err, ErrRoleAlreadyExists)

	r, err := Create(ctx, db, "ROLE_AUDITOR", "Auditor")
	require.NoError(t, err)
	assert.Equal(t, "ROLE_AUDITOR", r.ID)

	r, err = Update(ctx, db, "ROLE_AUDITOR", "Auditors")
	require.NoError(t, err)
	assert.Equal(t, "Auditors", r.Description)

	_, err = Update(ctx, db, "ROLE_NOPE", "x")
	require.ErrorIs(t, err, ErrRoleNotFound)

	roles, err := FindByIDs(ctx, db, []string{"ROLE_AUDITOR", models.RoleUser})
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}
