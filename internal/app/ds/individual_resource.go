package ds

import "time"

type IndividualResource struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"type:varchar(100);not null" json:"name"`
	Description   *string      `gorm:"type:text" json:"description,omitempty"`
	ResourceType  ResourceType `gorm:"type:varchar(30);not null" json:"resource_type"`
	Unit          string       `gorm:"type:varchar(20);not null" json:"unit"` // MB, GB, %, count
	PricePerUnit  int64        `gorm:"not null" json:"price_per_unit"`
	MinimumAmount int64        `gorm:"not null;default:1" json:"minimum_amount"`
	MaximumAmount *int64       `gorm:"default:null" json:"maximum_amount,omitempty"` // nil = unlimited
	Discount      `gorm:"embedded"`
	Enabled       bool      `gorm:"not null" json:"enabled"`
	SortOrder     int       `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
