package ds

import "time"

// Purchase is the append-only receipt of a package purchase.
type Purchase struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"not null;index" json:"user_id"`
	PackageID *uint `gorm:"index" json:"package_id"`
	Price     int64 `gorm:"not null" json:"price"` // paid, after discounts
	Resources `gorm:"embedded"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	Package *ResourcePackage `gorm:"foreignKey:PackageID;constraint:OnDelete:RESTRICT" json:"-"`
}
