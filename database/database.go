package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sharath018/event-scheduler-backend/config"
)

// DB is the process-wide handle set by Connect
var DB *gorm.DB

// Connect opens the configured database and stores it in DB.
// It panics when the connection cannot be established, the service is useless without it.
func Connect(cfg *config.Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.DBDriver {
	case "sqlite":
		log.Printf("🗄️ Using SQLite database at %s", cfg.DBPath)
		db, err = gorm.Open(openSQLite(cfg.DBPath+"?_foreign_keys=on"), gormCfg)
	default:
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
		)
		log.Printf("🗄️ Connecting to PostgreSQL at %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	}
	if err != nil {
		panic(fmt.Sprintf("❌ Failed to connect database: %v", err))
	}

	log.Println("✅ Database connected")
	DB = db
	return db
}

// OpenInMemory returns an isolated SQLite database, used by tests and quick local runs
func OpenInMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(openSQLite(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}

	// one connection keeps the in-memory database alive and avoids shared-cache table locks
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
