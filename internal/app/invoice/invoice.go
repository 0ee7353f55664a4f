package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resourceshop/internal/app/ds"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	StatusPaid = "paid"

	SourcePackage    = "package"
	SourceIndividual = "individual"

	archivePrefix = "invoices"
)

// Meta describes what an invoice was issued for. It is stored as JSON on the invoice.
type Meta struct {
	Status    string `json:"status"`
	Source    string `json:"source"`
	Reference uint   `json:"reference"`
	Notes     string `json:"notes,omitempty"`
}

// Line is a single invoice position.
type Line struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

type Store interface {
	InvoicingEnabled(ctx context.Context, userID uint) (bool, error)
	CreateInvoice(ctx context.Context, inv *ds.Invoice) error
	SetInvoiceArchiveKey(ctx context.Context, invoiceID uint, key string) error
}

// Archiver keeps a copy of issued invoices outside the database.
type Archiver interface {
	PutJSON(ctx context.Context, prefix, name string, v interface{}) (string, error)
}

type Service struct {
	store   Store
	archive Archiver
	now     func() time.Time
}

// NewService builds the invoice service. archive may be nil.
func NewService(store Store, archive Archiver) *Service {
	return &Service{
		store:   store,
		archive: archive,
		now:     time.Now,
	}
}

func (s *Service) CanCreateInvoice(ctx context.Context, userID uint) (bool, error) {
	ok, err := s.store.InvoicingEnabled(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check invoicing profile: %w", err)
	}
	return ok, nil
}

// CreateInvoiceWithItems stores an invoice and archives it on a best-effort basis.
// Tax is a flat rate that is always zero, so the total equals the subtotal.
func (s *Service) CreateInvoiceWithItems(ctx context.Context, userID uint, meta Meta, items []Line) (*ds.Invoice, error) {
	if len(items) == 0 {
		return nil, errors.New("invoice must have at least one item")
	}
	if meta.Status == "" {
		meta.Status = StatusPaid
	}

	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoice meta: %w", err)
	}

	inv := &ds.Invoice{
		Number:   Number(s.now()),
		UserID:   userID,
		Status:   meta.Status,
		Subtotal: decimal.Zero,
		TaxRate:  decimal.Zero,
		Meta:     datatypes.JSON(rawMeta),
	}
	for _, item := range items {
		inv.Items = append(inv.Items, ds.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
		inv.Subtotal = inv.Subtotal.Add(item.Total)
	}
	inv.Total = inv.Subtotal

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to store invoice: %w", err)
	}

	s.archiveInvoice(ctx, inv)
	return inv, nil
}

func (s *Service) archiveInvoice(ctx context.Context, inv *ds.Invoice) {
	if s.archive == nil {
		return
	}

	key, err := s.archive.PutJSON(ctx, archivePrefix, inv.Number, inv)
	if err != nil {
		logrus.WithError(err).Warnf("Invoice %s was not archived", inv.Number)
		return
	}
	if err := s.store.SetInvoiceArchiveKey(ctx, inv.ID, key); err != nil {
		logrus.WithError(err).Warnf("Archive key of invoice %s was not saved", inv.Number)
		return
	}
	inv.ArchiveKey = key
}

// Number formats an invoice number as INV-YYYYMMDD-XXXXXXXX.
func Number(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
