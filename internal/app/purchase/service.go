package purchase

import (
	"context"
	"errors"
	"time"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/pricing"
	"resourceshop/internal/app/repository"
	"resourceshop/internal/app/settings"
)

// Deps are the collaborators of the purchase service.
type Deps struct {
	Catalog   Catalog
	Credits   CreditLedger
	Resources ResourceLedger
	History   History
	Invoices  Invoicer
	Settings  settings.Provider
}

type Options struct {
	// RollbackPartialGrants removes limits already granted by a package
	// when a later grant of the same package fails.
	RollbackPartialGrants bool
	Now                   func() time.Time
}

type Service struct {
	catalog   Catalog
	credits   CreditLedger
	resources ResourceLedger
	history   History
	invoices  Invoicer
	settings  settings.Provider

	rollbackPartialGrants bool
	now                   func() time.Time
}

func NewService(deps Deps, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		catalog:               deps.Catalog,
		credits:               deps.Credits,
		resources:             deps.Resources,
		history:               deps.History,
		invoices:              deps.Invoices,
		settings:              deps.Settings,
		rollbackPartialGrants: opts.RollbackPartialGrants,
		now:                   now,
	}
}

// PackageOffer is a catalog package together with its current price.
type PackageOffer struct {
	ds.ResourcePackage
	pricing.Quote
}

// ResourceOffer is an individual resource with its active discount, if any.
type ResourceOffer struct {
	ds.IndividualResource
	ActiveDiscount *float64 `json:"active_discount"`
}

type ResourceCatalog struct {
	Resources []ResourceOffer `json:"resources"`
	Enabled   bool            `json:"enabled"`
}

// ListPackages returns the enabled packages priced with the current settings.
func (s *Service) ListPackages(ctx context.Context) ([]PackageOffer, error) {
	st, err := s.settings.Load(ctx)
	if err != nil {
		return nil, failed(err)
	}

	packages, err := s.catalog.ListPackages(ctx, true)
	if err != nil {
		return nil, failed(err)
	}

	calc := pricing.NewCalculator(st.Rules())
	now := s.now()
	offers := make([]PackageOffer, 0, len(packages))
	for _, pkg := range packages {
		offers = append(offers, PackageOffer{
			ResourcePackage: pkg,
			Quote:           calc.FinalPrice(pkg.Price, pricing.ItemDiscount(pkg.Discount, now)),
		})
	}
	return offers, nil
}

// ListResources returns the individual resources on sale. When individual
// purchases are switched off the list is empty and Enabled is false.
func (s *Service) ListResources(ctx context.Context) (*ResourceCatalog, error) {
	st, err := s.settings.Load(ctx)
	if err != nil {
		return nil, failed(err)
	}
	if !st.IndividualPurchasesEnabled {
		return &ResourceCatalog{Resources: []ResourceOffer{}, Enabled: false}, nil
	}

	resources, err := s.catalog.ListResources(ctx, true)
	if err != nil {
		return nil, failed(err)
	}

	now := s.now()
	offers := make([]ResourceOffer, 0, len(resources))
	for _, res := range resources {
		offers = append(offers, ResourceOffer{
			IndividualResource: res,
			ActiveDiscount:     pricing.ItemDiscount(res.Discount, now),
		})
	}
	return &ResourceCatalog{Resources: offers, Enabled: true}, nil
}

// Credits returns the spendable balance of the user.
func (s *Service) Credits(ctx context.Context, userID uint) (int64, error) {
	balance, err := s.credits.Balance(ctx, userID)
	if err != nil {
		return 0, failed(err)
	}
	return balance, nil
}

// charge debits price from the user and returns the balance seen before the
// debit. That read only feeds the error details; the debit itself is conditional.
func (s *Service) charge(ctx context.Context, sg *saga, userID uint, price int64) (int64, error) {
	balance, err := s.credits.Balance(ctx, userID)
	if err != nil {
		return 0, failed(err)
	}
	if balance < price {
		return balance, insufficientCredits(price, balance)
	}

	ok, err := s.credits.Debit(ctx, userID, price)
	if err != nil {
		return balance, &Error{Code: CodeCreditDeductionFailed, Message: "Failed to deduct credits", Err: err}
	}
	if !ok {
		fresh, err := s.credits.Balance(ctx, userID)
		if err != nil {
			fresh = 0
		}
		return fresh, insufficientCredits(price, fresh)
	}

	sg.record("refund credits", func(ctx context.Context) error {
		return s.credits.Credit(ctx, userID, price)
	})
	return balance, nil
}

// grantFailed undoes what the saga recorded and reports the failed grant.
func (s *Service) grantFailed(ctx context.Context, sg *saga, err error) error {
	if cerr := sg.compensate(ctx); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return &Error{Code: CodeResourceAdditionFailed, Message: "Failed to add resources to your account", Err: err}
}

// remaining re-reads the balance after a purchase, falling back to the
// arithmetic value when the ledger cannot be read.
func (s *Service) remaining(ctx context.Context, sg *saga, userID uint, before, price int64) int64 {
	balance, err := s.credits.Balance(ctx, userID)
	if err != nil {
		sg.log.WithError(err).Warn("failed to re-read credit balance")
		return before - price
	}
	return balance
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
