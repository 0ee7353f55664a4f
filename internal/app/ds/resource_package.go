package ds

import "time"

// Discount is the time-boxed percentage reduction shared by packages and individual resources.
// Dates are kept as entered by the admin; the pricing package parses them.
type Discount struct {
	DiscountPercentage float64 `gorm:"type:decimal(5,2);not null;default:0;check:discount_percentage >= 0 AND discount_percentage <= 100" json:"discount_percentage"`
	DiscountStartDate  string  `gorm:"type:varchar(40)" json:"discount_start_date,omitempty"`
	DiscountEndDate    string  `gorm:"type:varchar(40)" json:"discount_end_date,omitempty"`
	DiscountEnabled    bool    `gorm:"not null;default:false" json:"discount_enabled"`
}

type ResourcePackage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Resources   `gorm:"embedded"`
	Price       int64 `gorm:"not null" json:"price"` // credits
	Enabled     bool  `gorm:"not null" json:"enabled"`
	SortOrder   int   `gorm:"not null;default:0;index" json:"sort_order"`
	Discount    `gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
