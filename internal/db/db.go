// Package db opens the database and migrates its schema.
package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/config"
	"github.com/permgate/permgate/internal/db/dsn"
	"github.com/permgate/permgate/internal/db/models"
)

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// ErrUnknownEngine is returned when the configured gorm engine is not supported.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.DB.GormEngine) {
	case "", EngineMySQL:
		return mysql.Open(dsn.Create(cfg)), nil
	case EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	case EngineSQLite:
		return sqlite.Open(dsn.SQLite(cfg)), nil
	default:
		return nil, errors.Wrap(ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// Open connects to the configured database.
func Open(cfg *config.Config, gormCfg *gorm.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	if gormCfg == nil {
		gormCfg = &gorm.Config{}
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if strings.EqualFold(cfg.DB.GormEngine, EngineSQLite) {
		sqlDB, errDB := conn.DB()
		if errDB != nil {
			return nil, errors.Wrap(errDB, "failed to access sql database")
		}

		// sqlite serializes writers
		sqlDB.SetMaxOpenConns(1)
	}

	return conn, nil
}

// Migrate creates or updates the schema.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.RolePermission{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
