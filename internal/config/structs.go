package config

import (
	"time"

	"github.com/permgate/permgate/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode     bool // enable dev mode for development
	DB          DB
	Log         logger.Log
	Title       string
	Webserver   Webserver
	Permissions Permissions
	Cache       Cache
	JWT         JWT
	Seed        Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	URL            string // base url for the webserver
	BodyLimit      int    // max request body size in bytes
}

// Permissions selects the authorization model.
type Permissions struct {
	// Mode is "actions" (per action grants) or "read-write" (per bucket grants).
	Mode string
}

// Cache selects and configures the tagged cache backend.
type Cache struct {
	Driver        string        // memory or redis
	TTL           time.Duration // entry lifetime, zero keeps entries until invalidated
	Size          int           // max entries of the memory driver
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string // key prefix of the redis driver
}

// JWT configures the issued bearer tokens.
type JWT struct {
	Secret string // HMAC secret
	Issuer string
}

// Seed configures the account created on an empty database.
type Seed struct {
	AdminEmail    string
	AdminPassword string
}
