package repository

import (
	"context"
	"errors"

	"resourceshop/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoicingEnabled reports whether the user has a billing profile accepting invoices.
func (r *Repository) InvoicingEnabled(ctx context.Context, userID uint) (bool, error) {
	var profile ds.BillingProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.InvoicingEnabled, nil
}

func (r *Repository) SaveBillingProfile(ctx context.Context, profile *ds.BillingProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(profile).Error
}

// CreateInvoice stores the invoice together with its items.
func (r *Repository) CreateInvoice(ctx context.Context, inv *ds.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *Repository) SetInvoiceArchiveKey(ctx context.Context, invoiceID uint, key string) error {
	return r.db.WithContext(ctx).
		Model(&ds.Invoice{}).
		Where("id = ?", invoiceID).
		Update("archive_key", key).Error
}

func (r *Repository) GetInvoice(ctx context.Context, id uint) (*ds.Invoice, error) {
	var inv ds.Invoice
	if err := r.db.WithContext(ctx).Preload("Items").First(&inv, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}
