package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permgate/permgate/internal/config"
	"github.com/permgate/permgate/internal/db/models"
)

func TestOpenAndMigrate(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: EngineSQLite}}

	conn, err := Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	assert.True(t, conn.Migrator().HasTable(&models.RolePermission{}))
	assert.True(t, conn.Migrator().HasIndex(&models.RolePermission{}, "idx_role_controller_action"))
}

func TestDialector(t *testing.T) {
	for _, engine := range []string{"", EngineMySQL, EnginePostgres, EngineSQLite} {
		_, err := Dialector(&config.Config{DB: config.DB{GormEngine: engine}})
		assert.NoError(t, err, engine)
	}

	_, err := Dialector(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	assert.ErrorIs(t, err, ErrUnknownEngine)
}
