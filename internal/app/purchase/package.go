package purchase

import (
	"context"
	"fmt"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/invoice"
	"resourceshop/internal/app/pricing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultMaintenanceMessage = "The store is temporarily unavailable"

type PackageReceipt struct {
	Resources        map[ds.ResourceType]int64 `json:"resources"`
	CreditsRemaining int64                     `json:"credits_remaining"`
	PricePaid        int64                     `json:"price_paid"`
	OriginalPrice    int64                     `json:"original_price"`
	DiscountApplied  float64                   `json:"discount_applied"`
	InvoiceID        *uint                     `json:"invoice_id"`
}

// PurchasePackage sells a package to the user.
//
// Every check runs before credits move. Once the debit succeeded a failed
// grant refunds the exact price; failures to record the purchase or to
// issue an invoice are logged and do not fail the purchase.
func (s *Service) PurchasePackage(ctx context.Context, userID, packageID uint) (*PackageReceipt, error) {
	log := logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"package_id": packageID,
	})

	pkg, err := s.catalog.GetPackage(ctx, packageID)
	if isNotFound(err) {
		return nil, newError(CodePackageNotFound, "Package not found")
	}
	if err != nil {
		return nil, failed(err)
	}
	if !pkg.Enabled {
		return nil, newError(CodePackageDisabled, "This package is not available for purchase")
	}

	st, err := s.settings.Load(ctx)
	if err != nil {
		return nil, failed(err)
	}
	if !st.StoreEnabled {
		msg := st.MaintenanceMessage
		if msg == "" {
			msg = defaultMaintenanceMessage
		}
		return nil, newError(CodeStoreDisabled, "%s", msg)
	}
	if pkg.Price <= 0 {
		return nil, newError(CodeInvalidPackagePrice, "Package has an invalid price")
	}

	quote := pricing.NewCalculator(st.Rules()).FinalPrice(pkg.Price, pricing.ItemDiscount(pkg.Discount, s.now()))
	log = log.WithFields(logrus.Fields{
		"price":          quote.FinalPrice,
		"original_price": quote.OriginalPrice,
		"discount":       quote.DiscountApplied,
	})

	sg := newSaga(log)
	before, err := s.charge(ctx, sg, userID, quote.FinalPrice)
	if err != nil {
		log.WithError(err).Warn("package purchase rejected")
		return nil, err
	}
	// Credits have moved: the grant, its refund and the bookkeeping must not
	// be cut short by the caller going away.
	ctx = context.WithoutCancel(ctx)

	if err := s.grantPackage(ctx, sg, userID, pkg.Resources); err != nil {
		log.WithError(err).Error("failed to grant package resources")
		return nil, s.grantFailed(ctx, sg, err)
	}

	record := &ds.Purchase{
		UserID:    userID,
		PackageID: &pkg.ID,
		Price:     quote.FinalPrice,
		Resources: pkg.Resources,
	}
	if err := s.history.CreatePurchase(ctx, record); err != nil {
		log.WithError(err).Error("failed to record purchase")
	}

	receipt := &PackageReceipt{
		Resources:       pkg.Resources.Map(),
		PricePaid:       quote.FinalPrice,
		OriginalPrice:   quote.OriginalPrice,
		DiscountApplied: quote.DiscountApplied,
	}

	if st.InvoicePackages() {
		description := pkg.Name
		if pkg.Description != "" {
			description += " - " + pkg.Description
		}
		receipt.InvoiceID = s.issueInvoice(ctx, log, userID,
			invoice.Meta{Source: invoice.SourcePackage, Reference: pkg.ID},
			invoice.Line{
				Description: description,
				Quantity:    1,
				UnitPrice:   decimal.NewFromInt(quote.FinalPrice),
				Total:       decimal.NewFromInt(quote.FinalPrice),
			})
	}

	receipt.CreditsRemaining = s.remaining(ctx, sg, userID, before, quote.FinalPrice)
	log.Info("package purchased")
	return receipt, nil
}

func (s *Service) grantPackage(ctx context.Context, sg *saga, userID uint, res ds.Resources) error {
	if err := s.resources.EnsureUserResources(ctx, userID); err != nil {
		return fmt.Errorf("failed to prepare user resources: %w", err)
	}

	for _, t := range ds.ResourceTypes {
		amount := res.Get(t)
		if amount <= 0 {
			continue
		}
		if err := s.resources.AddUserResource(ctx, userID, t, amount); err != nil {
			return fmt.Errorf("failed to grant %s: %w", t, err)
		}
		// TODO: once product decides whether a half-granted package must always be
		// reverted, drop the option and make the chosen behavior unconditional.
		if s.rollbackPartialGrants {
			sg.record("remove "+string(t), func(ctx context.Context) error {
				return s.resources.RemoveUserResource(ctx, userID, t, amount)
			})
		}
	}
	return nil
}

// issueInvoice returns the id of the created invoice, or nil when the user is
// not eligible or invoicing failed.
func (s *Service) issueInvoice(ctx context.Context, log *logrus.Entry, userID uint, meta invoice.Meta, line invoice.Line) *uint {
	if s.invoices == nil {
		return nil
	}

	eligible, err := s.invoices.CanCreateInvoice(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("failed to check invoice eligibility")
		return nil
	}
	if !eligible {
		return nil
	}

	meta.Status = invoice.StatusPaid
	inv, err := s.invoices.CreateInvoiceWithItems(ctx, userID, meta, []invoice.Line{line})
	if err != nil {
		log.WithError(err).Error("failed to create invoice")
		return nil
	}
	if inv == nil {
		return nil
	}

	id := inv.ID
	log.WithField("invoice", inv.Number).Info("invoice created")
	return &id
}
