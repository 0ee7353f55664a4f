package ds

import "time"

type UserCredits struct {
	UserID    uint  `gorm:"primaryKey;autoIncrement:false"`
	Balance   int64 `gorm:"not null;default:0;check:balance >= 0"`
	UpdatedAt time.Time
}

// UserResources accumulates the limits granted to a user's hosting account.
type UserResources struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	Resources `gorm:"embedded"`
	UpdatedAt time.Time
}
