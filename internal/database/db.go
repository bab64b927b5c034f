package database

import (
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError is required: the repositories depend on unique-index
// violations surfacing as gorm.ErrDuplicatedKey.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Customer{},
		&model.Quote{},
		&model.QuoteItem{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Payment{},
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to auto-migrate models")
	}

	return db, nil
}
