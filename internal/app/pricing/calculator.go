package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// BulkDiscount grants Percent off once the base price reaches Threshold credits.
type BulkDiscount struct {
	Threshold int64   `json:"threshold" validate:"gte=0"`
	Percent   float64 `json:"percent" validate:"gte=0,lte=100"`
}

// Rules are the store-wide inputs of a price calculation.
type Rules struct {
	GlobalDiscount float64
	MaxDiscount    float64
	// BulkDiscounts must be sorted by Threshold, ascending.
	BulkDiscounts []BulkDiscount
}

// Quote is the outcome of a price calculation.
type Quote struct {
	OriginalPrice   int64   `json:"original_price"`
	FinalPrice      int64   `json:"final_price"`
	DiscountApplied float64 `json:"discount_applied"`
}

// PerUnit is the effective price of one unit when the quote covers amount units.
// It is used for invoice display only.
func (q Quote) PerUnit(amount int64) decimal.Decimal {
	if amount <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(q.FinalPrice).Div(decimal.NewFromInt(amount))
}

type Calculator struct {
	rules Rules
}

func NewCalculator(rules Rules) *Calculator {
	return &Calculator{rules: rules}
}

// FinalPrice applies the best of the item, global and bulk discounts, capped by MaxDiscount.
// Every bulk tier whose threshold is reached competes, not only the closest one.
func (c *Calculator) FinalPrice(basePrice int64, itemDiscount *float64) Quote {
	total := 0.0

	if itemDiscount != nil && *itemDiscount > 0 {
		total = math.Max(total, *itemDiscount)
	}

	total = math.Max(total, c.rules.GlobalDiscount)

	for _, tier := range c.rules.BulkDiscounts {
		if basePrice >= tier.Threshold {
			total = math.Max(total, tier.Percent)
		}
	}

	total = math.Min(total, c.rules.MaxDiscount)

	final := int64(math.Round(float64(basePrice) * (1 - total/100)))
	if final < 0 {
		final = 0
	}

	return Quote{
		OriginalPrice:   basePrice,
		FinalPrice:      final,
		DiscountApplied: total,
	}
}
