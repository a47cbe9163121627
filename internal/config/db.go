package config

// DB holds the database configuration settings.
type DB struct {
	Extras     string // driver options appended to the connection string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, file path for sqlite
	GormEngine string // mysql, postgres or sqlite
}
