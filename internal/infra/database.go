package infra

import (
	"fmt"

	"github.com/srouini/SmartStore/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the full schema. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey, which the product code
// retry loop depends on.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates or updates all tables. Also used by the
// integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on Postgres < 13; harmless elsewhere.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&model.Product{},
		&model.PhoneSpec{},
		&model.AccessorySpec{},
		&model.Stock{},
		&model.StockMovement{},
		&model.User{},
		&model.Supplier{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Invoice{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.Caisse{},
		&model.CaisseOperation{},
	)
}
