package db

import (
	"log"
	"time"

	"github.com/BruksfildServices01/walkin-queue/internal/config"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Service{},
		&models.QueueEntry{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// One active entry per customer, enforced by the database itself so
	// that check-then-insert races cannot slip a duplicate past the
	// transaction in the repository.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_entries_active_customer
        ON queue_entries (customer_id)
        WHERE status IN ('waiting', 'in_service')
    `)

	return db
}
