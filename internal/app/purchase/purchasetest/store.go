// Package purchasetest provides an in-memory implementation of every
// collaborator of the purchase service, with failure injection.
package purchasetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/invoice"
	"resourceshop/internal/app/purchase"
	"resourceshop/internal/app/repository"
	"resourceshop/internal/app/settings"
)

type Store struct {
	mu sync.Mutex

	Packages  map[uint]ds.ResourcePackage
	Resources map[uint]ds.IndividualResource
	Balances  map[uint]int64
	Granted   map[uint]*ds.Resources
	Purchases []ds.Purchase
	Invoices  []ds.Invoice
	Eligible  map[uint]bool
	Settings  settings.StoreSettings

	FailGrant   map[ds.ResourceType]error
	FailDebit   error
	FailRecord  error
	FailInvoice error
	FailCredit  error

	DebitCalls int
	GrantCalls int
}

func New() *Store {
	return &Store{
		Packages:  map[uint]ds.ResourcePackage{},
		Resources: map[uint]ds.IndividualResource{},
		Balances:  map[uint]int64{},
		Granted:   map[uint]*ds.Resources{},
		Eligible:  map[uint]bool{},
		Settings:  settings.Defaults(),
		FailGrant: map[ds.ResourceType]error{},
	}
}

// Deps wires the store in as every collaborator of the purchase service.
func (s *Store) Deps() purchase.Deps {
	return purchase.Deps{
		Catalog:   s,
		Credits:   s,
		Resources: s,
		History:   s,
		Invoices:  s,
		Settings:  s,
	}
}

func (s *Store) ListPackages(_ context.Context, enabledOnly bool) ([]ds.ResourcePackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ds.ResourcePackage
	for _, p := range s.Packages {
		if enabledOnly && !p.Enabled {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetPackage(_ context.Context, id uint) (*ds.ResourcePackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.Packages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListResources(_ context.Context, enabledOnly bool) ([]ds.IndividualResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ds.IndividualResource
	for _, r := range s.Resources {
		if enabledOnly && !r.Enabled {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetResource(_ context.Context, id uint) (*ds.IndividualResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.Resources[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *Store) Balance(_ context.Context, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Balances[userID], nil
}

func (s *Store) Debit(_ context.Context, userID uint, amount int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.DebitCalls++
	if s.FailDebit != nil {
		return false, s.FailDebit
	}
	if s.Balances[userID] < amount {
		return false, nil
	}
	s.Balances[userID] -= amount
	return true, nil
}

func (s *Store) Credit(_ context.Context, userID uint, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCredit != nil {
		return s.FailCredit
	}
	s.Balances[userID] += amount
	return nil
}

func (s *Store) EnsureUserResources(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Granted[userID]; !ok {
		s.Granted[userID] = &ds.Resources{}
	}
	return nil
}

func (s *Store) AddUserResource(_ context.Context, userID uint, t ds.ResourceType, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.GrantCalls++
	if err := s.FailGrant[t]; err != nil {
		return err
	}
	r := s.Granted[userID]
	r.Set(t, r.Get(t)+amount)
	return nil
}

func (s *Store) RemoveUserResource(_ context.Context, userID uint, t ds.ResourceType, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.Granted[userID]
	r.Set(t, max(r.Get(t)-amount, 0))
	return nil
}

// UserResources returns what was granted to the user so far.
func (s *Store) UserResources(userID uint) ds.Resources {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.Granted[userID]; ok {
		return *r
	}
	return ds.Resources{}
}

func (s *Store) CreatePurchase(_ context.Context, p *ds.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailRecord != nil {
		return s.FailRecord
	}
	p.ID = uint(len(s.Purchases) + 1)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.Purchases = append(s.Purchases, *p)
	return nil
}

func (s *Store) ListPurchases(_ context.Context, userID uint, offset, limit int) ([]ds.Purchase, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []ds.Purchase
	for _, p := range s.Purchases {
		if p.UserID != userID {
			continue
		}
		if p.PackageID != nil {
			if pkg, ok := s.Packages[*p.PackageID]; ok {
				p.Package = &pkg
			}
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})

	total := int64(len(rows))
	if offset >= len(rows) {
		return []ds.Purchase{}, total, nil
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end], total, nil
}

func (s *Store) CanCreateInvoice(_ context.Context, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Eligible[userID], nil
}

func (s *Store) CreateInvoiceWithItems(_ context.Context, userID uint, meta invoice.Meta, items []invoice.Line) (*ds.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInvoice != nil {
		return nil, s.FailInvoice
	}
	inv := ds.Invoice{
		ID:     uint(len(s.Invoices) + 1),
		Number: invoice.Number(time.Now()),
		UserID: userID,
		Status: meta.Status,
	}
	for _, item := range items {
		inv.Items = append(inv.Items, ds.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
		inv.Total = inv.Total.Add(item.Total)
	}
	s.Invoices = append(s.Invoices, inv)
	return &inv, nil
}

func (s *Store) Load(context.Context) (settings.StoreSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Settings, nil
}

func (s *Store) Save(_ context.Context, st settings.StoreSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settings = st
	return nil
}
