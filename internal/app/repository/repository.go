package repository

import (
	"errors"
	"fmt"

	"resourceshop/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	ErrNotFound = fmt.Errorf("record not found: %w", gorm.ErrRecordNotFound)
	ErrInUse    = errors.New("record is referenced by purchases")
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return &Repository{
		db: db,
	}, nil
}

// NewFromDB wraps an already opened connection.
func NewFromDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates every table of the store.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&ds.ResourcePackage{},
		&ds.IndividualResource{},
		&ds.Purchase{},
		&ds.StoreSetting{},
		&ds.UserCredits{},
		&ds.UserResources{},
		&ds.BillingProfile{},
		&ds.Invoice{},
		&ds.InvoiceItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
