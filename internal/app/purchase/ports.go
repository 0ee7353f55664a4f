package purchase

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/invoice"
)

// Catalog reads packages and individual resources.
// Lookups of unknown ids return repository.ErrNotFound.
type Catalog interface {
	ListPackages(ctx context.Context, enabledOnly bool) ([]ds.ResourcePackage, error)
	GetPackage(ctx context.Context, id uint) (*ds.ResourcePackage, error)
	ListResources(ctx context.Context, enabledOnly bool) ([]ds.IndividualResource, error)
	GetResource(ctx context.Context, id uint) (*ds.IndividualResource, error)
}

// CreditLedger holds user balances. Debit must be atomic and conditional:
// it reports ok=false instead of letting the balance go negative.
type CreditLedger interface {
	Balance(ctx context.Context, userID uint) (int64, error)
	Debit(ctx context.Context, userID uint, amount int64) (bool, error)
	Credit(ctx context.Context, userID uint, amount int64) error
}

// ResourceLedger holds the limits granted to user accounts.
type ResourceLedger interface {
	EnsureUserResources(ctx context.Context, userID uint) error
	AddUserResource(ctx context.Context, userID uint, t ds.ResourceType, amount int64) error
	RemoveUserResource(ctx context.Context, userID uint, t ds.ResourceType, amount int64) error
}

// History is the append-only log of package purchases.
type History interface {
	CreatePurchase(ctx context.Context, p *ds.Purchase) error
	ListPurchases(ctx context.Context, userID uint, offset, limit int) ([]ds.Purchase, int64, error)
}

// Invoicer issues invoices for completed purchases.
type Invoicer interface {
	CanCreateInvoice(ctx context.Context, userID uint) (bool, error)
	CreateInvoiceWithItems(ctx context.Context, userID uint, meta invoice.Meta, items []invoice.Line) (*ds.Invoice, error)
}
