package database

import (
	"log"

	"goldloan/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError is enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey — the recorders rely on that to report a racing
// transaction-number allocation instead of a generic driver error.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.TransactionNumber{},
		&model.Billing{},
		&model.BillingItem{},
		&model.Renewal{},
		&model.Takeover{},
		&model.CashEntry{},
		&model.GoldPrice{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
