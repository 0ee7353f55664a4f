package settings

import (
	"context"
	"sort"

	"resourceshop/internal/app/pricing"
)

const (
	FrontPagePackages   = "packages"
	FrontPageIndividual = "individual"
)

// StoreSettings is the typed view of the store-wide key/value configuration.
type StoreSettings struct {
	StoreEnabled               bool    `json:"store_enabled"`
	MaintenanceMessage         string  `json:"maintenance_message"`
	IndividualPurchasesEnabled bool    `json:"individual_purchases_enabled"`
	GlobalDiscount             float64 `json:"global_discount" validate:"gte=0,lte=100"`
	// MinimumPurchaseForDiscount is stored and exposed but no price calculation consults it.
	MinimumPurchaseForDiscount  int64                  `json:"minimum_purchase_for_discount" validate:"gte=0"`
	BulkDiscounts               []pricing.BulkDiscount `json:"bulk_discounts" validate:"dive"`
	MaxDiscount                 float64                `json:"max_discount" validate:"gte=0,lte=100"`
	FrontPageDisplay            string                 `json:"front_page_display" validate:"oneof=packages individual"`
	InvoiceGenerationEnabled    bool                   `json:"invoice_generation_enabled"`
	InvoiceGenerationPackages   bool                   `json:"invoice_generation_packages"`
	InvoiceGenerationIndividual bool                   `json:"invoice_generation_individual"`
}

// Defaults returns the settings used for keys that were never stored.
func Defaults() StoreSettings {
	return StoreSettings{
		StoreEnabled:     true,
		MaxDiscount:      50,
		FrontPageDisplay: FrontPagePackages,
		BulkDiscounts:    []pricing.BulkDiscount{},
	}
}

// Rules extracts the pricing inputs.
func (s StoreSettings) Rules() pricing.Rules {
	tiers := make([]pricing.BulkDiscount, len(s.BulkDiscounts))
	copy(tiers, s.BulkDiscounts)
	sortTiers(tiers)
	return pricing.Rules{
		GlobalDiscount: s.GlobalDiscount,
		MaxDiscount:    s.MaxDiscount,
		BulkDiscounts:  tiers,
	}
}

// InvoicePackages reports whether package purchases produce invoices.
func (s StoreSettings) InvoicePackages() bool {
	return s.InvoiceGenerationEnabled && s.InvoiceGenerationPackages
}

// InvoiceIndividual reports whether individual resource purchases produce invoices.
func (s StoreSettings) InvoiceIndividual() bool {
	return s.InvoiceGenerationEnabled && s.InvoiceGenerationIndividual
}

func sortTiers(tiers []pricing.BulkDiscount) {
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Threshold < tiers[j].Threshold
	})
}

// Provider supplies and persists store settings.
type Provider interface {
	Load(ctx context.Context) (StoreSettings, error)
	Save(ctx context.Context, s StoreSettings) error
}
