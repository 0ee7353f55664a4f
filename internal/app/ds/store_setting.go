package ds

import "time"

// StoreSetting is one row of the key/value settings table.
type StoreSetting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Value     string `gorm:"type:text;not null;default:''"`
	UpdatedAt time.Time
}
