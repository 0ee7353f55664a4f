package purchase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/invoice"
	"resourceshop/internal/app/pricing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const mbPerGB = 1024

type ResourceReceipt struct {
	ResourceType     ds.ResourceType `json:"resource_type"`
	Amount           int64           `json:"amount"`
	Unit             string          `json:"unit"`
	GrantedAmount    int64           `json:"granted_amount"`
	PricePaid        int64           `json:"price_paid"`
	PricePerUnit     float64         `json:"price_per_unit"`
	DiscountApplied  float64         `json:"discount_applied"`
	CreditsRemaining int64           `json:"credits_remaining"`
	InvoiceID        *uint           `json:"invoice_id"`
}

// BaseUnits converts a purchased amount into the unit the resource ledger
// stores. Memory and disk are kept in MB, so GB amounts are scaled.
func BaseUnits(t ds.ResourceType, unit string, amount int64) int64 {
	if storedInMB(t, unit) {
		return amount * mbPerGB
	}
	return amount
}

func storedInMB(t ds.ResourceType, unit string) bool {
	return (t == ds.MemoryLimit || t == ds.DiskLimit) && strings.EqualFold(strings.TrimSpace(unit), "GB")
}

// PurchaseResource sells amount units of an individual resource to the user.
// Unlike package purchases it leaves no purchase history row.
func (s *Service) PurchaseResource(ctx context.Context, userID, resourceID uint, amount int64) (*ResourceReceipt, error) {
	log := logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"resource_id": resourceID,
		"amount":      amount,
	})

	st, err := s.settings.Load(ctx)
	if err != nil {
		return nil, failed(err)
	}
	if !st.IndividualPurchasesEnabled {
		return nil, newError(CodeIndividualPurchasesDisabled, "Individual resource purchases are currently disabled")
	}

	res, err := s.catalog.GetResource(ctx, resourceID)
	if isNotFound(err) {
		return nil, newError(CodeResourceNotFound, "Resource not found")
	}
	if err != nil {
		return nil, failed(err)
	}
	if !res.Enabled {
		return nil, newError(CodeResourceNotFound, "Resource not found")
	}

	if amount <= 0 {
		return nil, newError(CodeInvalidAmount, "Amount must be a positive number")
	}
	if amount < res.MinimumAmount {
		return nil, newError(CodeBelowMinimum, "Minimum purchase amount is %d %s", res.MinimumAmount, res.Unit)
	}
	if res.MaximumAmount != nil && amount > *res.MaximumAmount {
		return nil, newError(CodeAboveMaximum, "Maximum purchase amount is %d %s", *res.MaximumAmount, res.Unit)
	}
	if res.PricePerUnit > 0 && amount > math.MaxInt64/res.PricePerUnit {
		return nil, newError(CodeInvalidAmount, "Amount is too large")
	}
	if storedInMB(res.ResourceType, res.Unit) && amount > math.MaxInt64/mbPerGB {
		return nil, newError(CodeInvalidAmount, "Amount is too large")
	}

	quote := pricing.NewCalculator(st.Rules()).FinalPrice(res.PricePerUnit*amount, pricing.ItemDiscount(res.Discount, s.now()))
	log = log.WithFields(logrus.Fields{
		"price":    quote.FinalPrice,
		"discount": quote.DiscountApplied,
	})

	sg := newSaga(log)
	before, err := s.charge(ctx, sg, userID, quote.FinalPrice)
	if err != nil {
		log.WithError(err).Warn("resource purchase rejected")
		return nil, err
	}
	// Credits have moved: the grant, its refund and the bookkeeping must not
	// be cut short by the caller going away.
	ctx = context.WithoutCancel(ctx)

	granted := BaseUnits(res.ResourceType, res.Unit, amount)
	if err := s.grantResource(ctx, userID, res.ResourceType, granted); err != nil {
		log.WithError(err).Error("failed to grant resource")
		return nil, s.grantFailed(ctx, sg, err)
	}

	perUnit := quote.PerUnit(amount)
	receipt := &ResourceReceipt{
		ResourceType:    res.ResourceType,
		Amount:          amount,
		Unit:            res.Unit,
		GrantedAmount:   granted,
		PricePaid:       quote.FinalPrice,
		PricePerUnit:    perUnit.InexactFloat64(),
		DiscountApplied: quote.DiscountApplied,
	}

	if st.InvoiceIndividual() {
		receipt.InvoiceID = s.issueInvoice(ctx, log, userID,
			invoice.Meta{Source: invoice.SourceIndividual, Reference: res.ID},
			invoice.Line{
				Description: fmt.Sprintf("%s (%d %s)", res.Name, amount, res.Unit),
				Quantity:    amount,
				UnitPrice:   perUnit,
				Total:       decimal.NewFromInt(quote.FinalPrice),
			})
	}

	receipt.CreditsRemaining = s.remaining(ctx, sg, userID, before, quote.FinalPrice)
	log.Info("resource purchased")
	return receipt, nil
}

func (s *Service) grantResource(ctx context.Context, userID uint, t ds.ResourceType, amount int64) error {
	if err := s.resources.EnsureUserResources(ctx, userID); err != nil {
		return fmt.Errorf("failed to prepare user resources: %w", err)
	}
	if err := s.resources.AddUserResource(ctx, userID, t, amount); err != nil {
		return fmt.Errorf("failed to grant %s: %w", t, err)
	}
	return nil
}
