package repository

import (
	"context"
	"errors"
	"fmt"

	"resourceshop/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Credits

// Balance returns the user's credits; users without a ledger row have none.
func (r *Repository) Balance(ctx context.Context, userID uint) (int64, error) {
	var uc ds.UserCredits
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&uc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uc.Balance, nil
}

// Debit removes amount credits only if the balance covers it, in a single statement.
// ok is false when the balance was insufficient at the time of the update.
func (r *Repository) Debit(ctx context.Context, userID uint, amount int64) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("debit amount must not be negative: %d", amount)
	}
	if amount == 0 {
		return true, nil
	}

	result := r.db.WithContext(ctx).
		Model(&ds.UserCredits{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Credit adds amount credits, opening the ledger row when needed.
func (r *Repository) Credit(ctx context.Context, userID uint, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative: %d", amount)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ds.UserCredits{}).
			Where("user_id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&ds.UserCredits{UserID: userID, Balance: amount}).Error
	})
}

// Resources

// EnsureUserResources opens the user's resource row if it does not exist yet.
func (r *Repository) EnsureUserResources(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ds.UserResources{UserID: userID}).Error
}

func (r *Repository) AddUserResource(ctx context.Context, userID uint, t ds.ResourceType, amount int64) error {
	if !t.Valid() {
		return fmt.Errorf("unknown resource type %q", t)
	}
	col := string(t)

	result := r.db.WithContext(ctx).
		Model(&ds.UserResources{}).
		Where("user_id = ?", userID).
		Update(col, gorm.Expr(col+" + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no resource row for user %d", userID)
	}
	return nil
}

// RemoveUserResource takes amount back, never going below zero.
func (r *Repository) RemoveUserResource(ctx context.Context, userID uint, t ds.ResourceType, amount int64) error {
	if !t.Valid() {
		return fmt.Errorf("unknown resource type %q", t)
	}
	col := string(t)

	return r.db.WithContext(ctx).
		Model(&ds.UserResources{}).
		Where("user_id = ?", userID).
		Update(col, gorm.Expr("CASE WHEN "+col+" >= ? THEN "+col+" - ? ELSE 0 END", amount, amount)).Error
}

func (r *Repository) UserResources(ctx context.Context, userID uint) (ds.Resources, error) {
	var ur ds.UserResources
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&ur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ds.Resources{}, nil
	}
	if err != nil {
		return ds.Resources{}, err
	}
	return ur.Resources, nil
}
