package database

import (
	"log"
	"strings"

	"opname-backend/internal/config"
	"opname-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init opens the database and migrates the schema. The DSN picks the
// driver: a Postgres connection string selects Postgres, anything else is
// treated as a SQLite file path (the default deployment is a single shop
// with an embedded database).
func Init(cfg *config.Config) {
	var err error

	// TranslateError lets handlers match gorm.ErrDuplicatedKey and
	// gorm.ErrForeignKeyViolated across both drivers.
	gormCfg := &gorm.Config{TranslateError: true}

	if isPostgresDSN(cfg.DatabaseDSN) {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	} else {
		// SQLite ships with foreign keys off; the entry cascades depend on
		// them, and the pragma must ride the DSN so every pooled connection
		// gets it.
		dsn := cfg.DatabaseDSN
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
		DB, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Product{},
		&models.OpnameSession{},
		&models.OpnameEntry{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
