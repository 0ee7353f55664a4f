package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"resourceshop/internal/app/pricing"
)

// Keys of the settings table.
const (
	KeyStoreEnabled                = "store_enabled"
	KeyMaintenanceMessage          = "maintenance_message"
	KeyIndividualPurchasesEnabled  = "individual_purchases_enabled"
	KeyGlobalDiscount              = "global_discount"
	KeyMinimumPurchaseForDiscount  = "minimum_purchase_for_discount"
	KeyBulkDiscounts               = "bulk_discounts"
	KeyMaxDiscount                 = "max_discount"
	KeyFrontPageDisplay            = "front_page_display"
	KeyInvoiceGenerationEnabled    = "invoice_generation_enabled"
	KeyInvoiceGenerationPackages   = "invoice_generation_packages"
	KeyInvoiceGenerationIndividual = "invoice_generation_individual"
)

// Decode builds typed settings from raw key/value rows.
// Missing keys keep their defaults; malformed values are logged and ignored.
func Decode(kv map[string]string) StoreSettings {
	s := Defaults()

	decodeBool(kv, KeyStoreEnabled, &s.StoreEnabled)
	decodeBool(kv, KeyIndividualPurchasesEnabled, &s.IndividualPurchasesEnabled)
	decodeBool(kv, KeyInvoiceGenerationEnabled, &s.InvoiceGenerationEnabled)
	decodeBool(kv, KeyInvoiceGenerationPackages, &s.InvoiceGenerationPackages)
	decodeBool(kv, KeyInvoiceGenerationIndividual, &s.InvoiceGenerationIndividual)
	decodeFloat(kv, KeyGlobalDiscount, &s.GlobalDiscount)
	decodeFloat(kv, KeyMaxDiscount, &s.MaxDiscount)

	if v, ok := kv[KeyMaintenanceMessage]; ok {
		s.MaintenanceMessage = v
	}
	if v, ok := kv[KeyFrontPageDisplay]; ok && (v == FrontPagePackages || v == FrontPageIndividual) {
		s.FrontPageDisplay = v
	}
	if v, ok := kv[KeyMinimumPurchaseForDiscount]; ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			logrus.Warnf("settings: bad %s value %q: %v", KeyMinimumPurchaseForDiscount, v, err)
		} else {
			s.MinimumPurchaseForDiscount = n
		}
	}
	if v, ok := kv[KeyBulkDiscounts]; ok && v != "" {
		tiers, err := DecodeBulkDiscounts(v)
		if err != nil {
			logrus.Warnf("settings: bad %s value: %v", KeyBulkDiscounts, err)
		} else {
			s.BulkDiscounts = tiers
		}
	}

	return s
}

// Encode renders typed settings as key/value rows.
func Encode(s StoreSettings) map[string]string {
	return map[string]string{
		KeyStoreEnabled:                strconv.FormatBool(s.StoreEnabled),
		KeyMaintenanceMessage:          s.MaintenanceMessage,
		KeyIndividualPurchasesEnabled:  strconv.FormatBool(s.IndividualPurchasesEnabled),
		KeyGlobalDiscount:              strconv.FormatFloat(s.GlobalDiscount, 'f', -1, 64),
		KeyMinimumPurchaseForDiscount:  strconv.FormatInt(s.MinimumPurchaseForDiscount, 10),
		KeyBulkDiscounts:               EncodeBulkDiscounts(s.BulkDiscounts),
		KeyMaxDiscount:                 strconv.FormatFloat(s.MaxDiscount, 'f', -1, 64),
		KeyFrontPageDisplay:            s.FrontPageDisplay,
		KeyInvoiceGenerationEnabled:    strconv.FormatBool(s.InvoiceGenerationEnabled),
		KeyInvoiceGenerationPackages:   strconv.FormatBool(s.InvoiceGenerationPackages),
		KeyInvoiceGenerationIndividual: strconv.FormatBool(s.InvoiceGenerationIndividual),
	}
}

// DecodeBulkDiscounts parses the stored JSON object {"threshold": percent, ...}
// into tiers sorted by threshold.
func DecodeBulkDiscounts(raw string) ([]pricing.BulkDiscount, error) {
	var m map[string]float64
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("bulk discounts: %w", err)
	}

	tiers := make([]pricing.BulkDiscount, 0, len(m))
	for k, pct := range m {
		threshold, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bulk discounts: threshold %q: %w", k, err)
		}
		tiers = append(tiers, pricing.BulkDiscount{Threshold: threshold, Percent: pct})
	}
	sortTiers(tiers)
	return tiers, nil
}

func EncodeBulkDiscounts(tiers []pricing.BulkDiscount) string {
	m := make(map[string]float64, len(tiers))
	for _, t := range tiers {
		m[strconv.FormatInt(t.Threshold, 10)] = t.Percent
	}
	b, _ := json.Marshal(m) // map[string]float64 always marshals
	return string(b)
}

func decodeBool(kv map[string]string, key string, dst *bool) {
	v, ok := kv[key]
	if !ok || v == "" {
		return
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1":
		*dst = true
	case "false", "0":
		*dst = false
	default:
		logrus.Warnf("settings: bad %s value %q", key, v)
	}
}

func decodeFloat(kv map[string]string, key string, dst *float64) {
	v, ok := kv[key]
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		logrus.Warnf("settings: bad %s value %q: %v", key, v, err)
		return
	}
	*dst = f
}
