package purchase_test

import (
	"context"
	"errors"
	"testing"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/purchase"
	"resourceshop/internal/app/purchase/purchasetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resourceStore() *purchasetest.Store {
	store := purchasetest.New()
	store.Settings.IndividualPurchasesEnabled = true
	maxAmount := int64(16)
	store.Resources[1] = ds.IndividualResource{
		ID:            1,
		Name:          "Extra RAM",
		ResourceType:  ds.MemoryLimit,
		Unit:          "GB",
		PricePerUnit:  100,
		MinimumAmount: 2,
		MaximumAmount: &maxAmount,
		Enabled:       true,
	}
	store.Resources[2] = ds.IndividualResource{
		ID:            2,
		Name:          "Extra databases",
		ResourceType:  ds.DatabaseLimit,
		Unit:          "count",
		PricePerUnit:  50,
		MinimumAmount: 1,
		Enabled:       true,
	}
	store.Balances[buyer] = 1000
	return store
}

func TestBaseUnits(t *testing.T) {
	tests := []struct {
		t      ds.ResourceType
		unit   string
		amount int64
		want   int64
	}{
		{ds.MemoryLimit, "GB", 2, 2048},
		{ds.DiskLimit, "GB", 3, 3072},
		{ds.DiskLimit, "gb", 1, 1024},
		{ds.MemoryLimit, "MB", 512, 512},
		{ds.CPULimit, "GB", 2, 2},
		{ds.DatabaseLimit, "count", 4, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, purchase.BaseUnits(tt.t, tt.unit, tt.amount), "%s %d %s", tt.t, tt.amount, tt.unit)
	}
}

func TestPurchaseResourceConvertsGigabytes(t *testing.T) {
	store := resourceStore()
	svc := newService(store, purchase.Options{})

	receipt, err := svc.PurchaseResource(context.Background(), buyer, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2048), store.UserResources(buyer).MemoryLimit)
	assert.Equal(t, int64(2), receipt.Amount)
	assert.Equal(t, int64(2048), receipt.GrantedAmount)
	assert.Equal(t, "GB", receipt.Unit)
	assert.Equal(t, ds.MemoryLimit, receipt.ResourceType)
	assert.Equal(t, int64(200), receipt.PricePaid)
	assert.Equal(t, int64(800), receipt.CreditsRemaining)
	assert.Empty(t, store.Purchases)
}

func TestPurchaseResourcePricing(t *testing.T) {
	store := resourceStore()
	store.Settings.GlobalDiscount = 10
	store.Settings.InvoiceGenerationEnabled = true
	store.Settings.InvoiceGenerationIndividual = true
	store.Eligible[buyer] = true
	svc := newService(store, purchase.Options{})

	receipt, err := svc.PurchaseResource(context.Background(), buyer, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(135), receipt.PricePaid)
	assert.Equal(t, 45.0, receipt.PricePerUnit)
	assert.Equal(t, 10.0, receipt.DiscountApplied)
	assert.Equal(t, int64(865), receipt.CreditsRemaining)
	assert.Equal(t, int64(3), store.UserResources(buyer).DatabaseLimit)

	require.NotNil(t, receipt.InvoiceID)
	require.Len(t, store.Invoices, 1)
	item := store.Invoices[0].Items[0]
	assert.Equal(t, "Extra databases (3 count)", item.Description)
	assert.Equal(t, int64(3), item.Quantity)
	assert.Equal(t, "45", item.UnitPrice.String())
	assert.Equal(t, "135", item.Total.String())
}

func TestPurchaseResourceRejections(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*purchasetest.Store)
		resourceID uint
		amount     int64
		code       purchase.Code
		message    string
	}{
		{
			name:       "feature disabled",
			mutate:     func(s *purchasetest.Store) { s.Settings.IndividualPurchasesEnabled = false },
			resourceID: 1,
			amount:     2,
			code:       purchase.CodeIndividualPurchasesDisabled,
		},
		{
			name:       "unknown resource",
			resourceID: 9,
			amount:     2,
			code:       purchase.CodeResourceNotFound,
		},
		{
			name: "disabled resource",
			mutate: func(s *purchasetest.Store) {
				r := s.Resources[1]
				r.Enabled = false
				s.Resources[1] = r
			},
			resourceID: 1,
			amount:     2,
			code:       purchase.CodeResourceNotFound,
		},
		{
			name:       "non-positive amount",
			resourceID: 2,
			amount:     0,
			code:       purchase.CodeInvalidAmount,
		},
		{
			name:       "below minimum",
			resourceID: 1,
			amount:     1,
			code:       purchase.CodeBelowMinimum,
			message:    "Minimum purchase amount is 2 GB",
		},
		{
			name:       "above maximum",
			resourceID: 1,
			amount:     17,
			code:       purchase.CodeAboveMaximum,
			message:    "Maximum purchase amount is 16 GB",
		},
		{
			name:       "overflowing amount",
			resourceID: 2,
			amount:     1 << 62,
			code:       purchase.CodeInvalidAmount,
		},
		{
			name: "gigabytes overflowing the megabyte ledger",
			mutate: func(s *purchasetest.Store) {
				s.Resources[3] = ds.IndividualResource{
					ID:            3,
					Name:          "Cheap disk",
					ResourceType:  ds.DiskLimit,
					Unit:          "GB",
					PricePerUnit:  1,
					MinimumAmount: 1,
					Enabled:       true,
				}
			},
			resourceID: 3,
			amount:     1 << 54,
			code:       purchase.CodeInvalidAmount,
		},
		{
			name:       "insufficient credits",
			resourceID: 2,
			amount:     21,
			code:       purchase.CodeInsufficientCredits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := resourceStore()
			if tt.mutate != nil {
				tt.mutate(store)
			}
			svc := newService(store, purchase.Options{})

			_, err := svc.PurchaseResource(context.Background(), buyer, tt.resourceID, tt.amount)
			pe := requireCode(t, err, tt.code)
			if tt.message != "" {
				assert.Equal(t, tt.message, pe.Message)
			}
			assert.Equal(t, int64(1000), store.Balances[buyer])
			assert.Zero(t, store.DebitCalls)
			assert.Zero(t, store.GrantCalls)
		})
	}
}

func TestPurchaseResourceGrantFailureRefunds(t *testing.T) {
	store := resourceStore()
	store.FailGrant[ds.MemoryLimit] = errors.New("panel unavailable")
	svc := newService(store, purchase.Options{})

	_, err := svc.PurchaseResource(context.Background(), buyer, 1, 4)
	requireCode(t, err, purchase.CodeResourceAdditionFailed)
	assert.Equal(t, int64(1000), store.Balances[buyer])
	assert.Equal(t, 1, store.DebitCalls)
}

func TestListResources(t *testing.T) {
	store := resourceStore()
	r := store.Resources[2]
	r.Discount = ds.Discount{DiscountPercentage: 15, DiscountEnabled: true}
	store.Resources[2] = r
	svc := newService(store, purchase.Options{})

	catalog, err := svc.ListResources(context.Background())
	require.NoError(t, err)
	assert.True(t, catalog.Enabled)
	require.Len(t, catalog.Resources, 2)
	assert.Nil(t, catalog.Resources[0].ActiveDiscount)
	require.NotNil(t, catalog.Resources[1].ActiveDiscount)
	assert.Equal(t, 15.0, *catalog.Resources[1].ActiveDiscount)

	store.Settings.IndividualPurchasesEnabled = false
	catalog, err = svc.ListResources(context.Background())
	require.NoError(t, err)
	assert.False(t, catalog.Enabled)
	assert.NotNil(t, catalog.Resources)
	assert.Empty(t, catalog.Resources)
}
