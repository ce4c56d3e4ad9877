package config

// Supported gorm engines.
const (
	// EngineMySQL selects the MySQL gorm driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the PostgreSQL gorm driver.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string
}
