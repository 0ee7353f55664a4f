package repository

import (
	"context"

	"resourceshop/internal/app/ds"
)

func (r *Repository) CreatePurchase(ctx context.Context, p *ds.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListPurchases returns one page of the user's purchases, newest first, with their packages loaded.
func (r *Repository) ListPurchases(ctx context.Context, userID uint, offset, limit int) ([]ds.Purchase, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&ds.Purchase{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var purchases []ds.Purchase
	err = r.db.WithContext(ctx).
		Preload("Package").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}
