package ds

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BillingProfile marks a user as eligible for invoices.
type BillingProfile struct {
	UserID           uint   `gorm:"primaryKey;autoIncrement:false"`
	Email            string `gorm:"type:varchar(100)"`
	CompanyName      string `gorm:"type:varchar(100)"`
	InvoicingEnabled bool   `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Invoice struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Number     string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"number"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Status     string          `gorm:"type:varchar(20);not null;default:'paid'" json:"status"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	Total      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	Meta       datatypes.JSON  `json:"meta"`
	ArchiveKey string          `gorm:"type:varchar(255)" json:"archive_key,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"not null;index" json:"invoice_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
}
