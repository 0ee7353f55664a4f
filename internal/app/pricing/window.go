package pricing

import (
	"strings"
	"time"

	"resourceshop/internal/app/ds"
)

// dateLayouts are the formats admins enter discount dates in.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ActiveDiscount reports the item discount percentage in effect at now.
// A date that is present but unparsable closes the window.
func ActiveDiscount(d ds.Discount, now time.Time) (float64, bool) {
	if !d.DiscountEnabled {
		return 0, false
	}

	if start := strings.TrimSpace(d.DiscountStartDate); start != "" {
		t, ok := parseDate(start)
		if !ok || now.Before(t) {
			return 0, false
		}
	}
	if end := strings.TrimSpace(d.DiscountEndDate); end != "" {
		t, ok := parseDate(end)
		if !ok || now.After(t) {
			return 0, false
		}
	}

	if d.DiscountPercentage <= 0 {
		return 0, false
	}
	return d.DiscountPercentage, true
}

// ItemDiscount is ActiveDiscount in the pointer form the calculator takes.
func ItemDiscount(d ds.Discount, now time.Time) *float64 {
	pct, ok := ActiveDiscount(d, now)
	if !ok {
		return nil
	}
	return &pct
}
