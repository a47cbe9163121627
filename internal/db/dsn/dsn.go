// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/permgate/permgate/internal/config"
)

// Create builds the MySQL Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// Postgres builds the PostgreSQL keyword/value connection string from the configuration.
// Extras are appended verbatim, e.g. "sslmode=disable TimeZone=UTC".
func Postgres(dbCfg *config.Config) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Name,
	)

	if dbCfg.DB.Extras != "" {
		out += " " + dbCfg.DB.Extras
	}

	return out
}

// SQLite returns the database file of the configuration, ":memory:" when unset.
func SQLite(dbCfg *config.Config) string {
	if dbCfg.DB.Name == "" {
		return ":memory:"
	}

	if dbCfg.DB.Extras != "" {
		return dbCfg.DB.Name + "?" + dbCfg.DB.Extras
	}

	return dbCfg.DB.Name
}
