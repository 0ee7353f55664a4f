package repository

import (
	"context"

	"resourceshop/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) AllSettings(ctx context.Context) (map[string]string, error) {
	var rows []ds.StoreSetting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	kv := make(map[string]string, len(rows))
	for _, row := range rows {
		kv[row.Key] = row.Value
	}
	return kv, nil
}

// SaveSettings upserts every given key in one transaction.
func (r *Repository) SaveSettings(ctx context.Context, kv map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range kv {
			row := ds.StoreSetting{Key: k, Value: v}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
