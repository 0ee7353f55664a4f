package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"resourceshop/internal/app/ds"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	eligible   map[uint]bool
	eligibleEr error
	created    []*ds.Invoice
	createErr  error
	keys       map[uint]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{eligible: map[uint]bool{}, keys: map[uint]string{}}
}

func (f *fakeStore) InvoicingEnabled(_ context.Context, userID uint) (bool, error) {
	return f.eligible[userID], f.eligibleEr
}

func (f *fakeStore) CreateInvoice(_ context.Context, inv *ds.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	inv.ID = uint(len(f.created) + 1)
	f.created = append(f.created, inv)
	return nil
}

func (f *fakeStore) SetInvoiceArchiveKey(_ context.Context, id uint, key string) error {
	f.keys[id] = key
	return nil
}

type fakeArchiver struct {
	err  error
	puts int
}

func (f *fakeArchiver) PutJSON(_ context.Context, prefix, name string, _ interface{}) (string, error) {
	f.puts++
	if f.err != nil {
		return "", f.err
	}
	return prefix + "/" + name + ".json", nil
}

func TestNumberFormat(t *testing.T) {
	n := Number(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^INV-20260309-[0-9A-F]{8}$`), n)
	assert.NotEqual(t, n, Number(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)))
}

func TestCanCreateInvoice(t *testing.T) {
	store := newFakeStore()
	store.eligible[7] = true
	svc := NewService(store, nil)

	ok, err := svc.CanCreateInvoice(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanCreateInvoice(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, ok)

	store.eligibleEr = errors.New("db down")
	_, err = svc.CanCreateInvoice(context.Background(), 7)
	assert.Error(t, err)
}

func TestCreateInvoiceWithItems(t *testing.T) {
	store := newFakeStore()
	archive := &fakeArchiver{}
	svc := NewService(store, archive)

	inv, err := svc.CreateInvoiceWithItems(context.Background(), 3, Meta{Source: SourceIndividual, Reference: 4}, []Line{{
		Description: "Extra memory (3 GB)",
		Quantity:    3,
		UnitPrice:   decimal.NewFromInt(100).Div(decimal.NewFromInt(3)),
		Total:       decimal.NewFromInt(100),
	}})
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, inv.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(inv.Subtotal))
	assert.True(t, decimal.NewFromInt(100).Equal(inv.Total))
	assert.True(t, inv.TaxRate.IsZero())
	require.Len(t, inv.Items, 1)
	assert.Equal(t, int64(3), inv.Items[0].Quantity)

	var meta Meta
	require.NoError(t, json.Unmarshal(inv.Meta, &meta))
	assert.Equal(t, SourceIndividual, meta.Source)
	assert.Equal(t, uint(4), meta.Reference)
	assert.Equal(t, StatusPaid, meta.Status)

	assert.Equal(t, 1, archive.puts)
	assert.Equal(t, "invoices/"+inv.Number+".json", inv.ArchiveKey)
	assert.Equal(t, inv.ArchiveKey, store.keys[inv.ID])
}

func TestCreateInvoiceArchiveFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeArchiver{err: errors.New("minio unavailable")})

	inv, err := svc.CreateInvoiceWithItems(context.Background(), 1, Meta{Source: SourcePackage}, []Line{{
		Description: "Starter",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(800),
		Total:       decimal.NewFromInt(800),
	}})
	require.NoError(t, err)
	assert.Empty(t, inv.ArchiveKey)
	assert.Len(t, store.created, 1)
}

func TestCreateInvoiceErrors(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	_, err := svc.CreateInvoiceWithItems(context.Background(), 1, Meta{}, nil)
	assert.Error(t, err)

	store.createErr = errors.New("insert failed")
	_, err = svc.CreateInvoiceWithItems(context.Background(), 1, Meta{}, []Line{{Description: "x", Quantity: 1}})
	assert.ErrorIs(t, err, store.createErr)
}
