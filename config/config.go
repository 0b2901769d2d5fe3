package config

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database named by the environment. MySQL in
// production (DB_DRIVER=mysql + DATABASE_DSN), a local SQLite file
// otherwise so the app runs with no setup.
func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == "mysql" {
		return gorm.Open(mysql.Open(os.Getenv("DATABASE_DSN")), &gorm.Config{})
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "bims.db"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}
