package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resourceshop/internal/app/ds"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: NewGormLogger().LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection keeps the in-memory database alive
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return NewFromDB(db)
}

func TestDebitIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Credit(ctx, 7, 100))

	ok, err := repo.Debit(ctx, 7, 150)
	require.NoError(t, err)
	assert.False(t, ok)

	balance, err := repo.Balance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	ok, err = repo.Debit(ctx, 7, 60)
	require.NoError(t, err)
	assert.True(t, ok)

	balance, err = repo.Balance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)
}

func TestDebitUnknownUser(t *testing.T) {
	ok, err := newTestRepository(t).Debit(context.Background(), 99, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreditOpensAndIncrementsLedger(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	balance, err := repo.Balance(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, repo.Credit(ctx, 3, 25))
	require.NoError(t, repo.Credit(ctx, 3, 75))

	balance, err = repo.Balance(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	assert.Error(t, repo.Credit(ctx, 3, -1))
}

func TestUserResources(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	err := repo.AddUserResource(ctx, 5, ds.MemoryLimit, 512)
	assert.Error(t, err, "grant without a resource row must fail")

	require.NoError(t, repo.EnsureUserResources(ctx, 5))
	require.NoError(t, repo.EnsureUserResources(ctx, 5))

	require.NoError(t, repo.AddUserResource(ctx, 5, ds.MemoryLimit, 512))
	require.NoError(t, repo.AddUserResource(ctx, 5, ds.MemoryLimit, 1024))
	require.NoError(t, repo.AddUserResource(ctx, 5, ds.CPULimit, 100))
	require.NoError(t, repo.RemoveUserResource(ctx, 5, ds.CPULimit, 250))

	res, err := repo.UserResources(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1536), res.MemoryLimit)
	assert.Equal(t, int64(0), res.CPULimit)

	assert.Error(t, repo.AddUserResource(ctx, 5, ds.ResourceType("gpu_limit"), 1))
}

func TestListPurchasesPagination(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	pkg := &ds.ResourcePackage{Name: "Starter", Price: 100, Enabled: true}
	require.NoError(t, repo.CreatePackage(ctx, pkg))

	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		require.NoError(t, repo.CreatePurchase(ctx, &ds.Purchase{
			UserID:    1,
			PackageID: &pkg.ID,
			Price:     int64(i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.CreatePurchase(ctx, &ds.Purchase{UserID: 2, PackageID: &pkg.ID, Price: 1, CreatedAt: base}))

	page1, total, err := repo.ListPurchases(ctx, 1, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(120), total)
	require.Len(t, page1, 50)
	assert.Equal(t, int64(119), page1[0].Price, "newest first")
	require.NotNil(t, page1[0].Package)
	assert.Equal(t, "Starter", page1[0].Package.Name)

	page2, _, err := repo.ListPurchases(ctx, 1, 50, 50)
	require.NoError(t, err)
	assert.Len(t, page2, 50)

	page3, _, err := repo.ListPurchases(ctx, 1, 100, 50)
	require.NoError(t, err)
	assert.Len(t, page3, 20)
	assert.Equal(t, int64(0), page3[19].Price)
}

func TestPackageCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	hidden := &ds.ResourcePackage{Name: "Hidden", Price: 50, Enabled: false, SortOrder: 1}
	big := &ds.ResourcePackage{Name: "Big", Price: 900, Enabled: true, SortOrder: 2}
	small := &ds.ResourcePackage{Name: "Small", Price: 100, Enabled: true, SortOrder: 0}
	for _, p := range []*ds.ResourcePackage{hidden, big, small} {
		require.NoError(t, repo.CreatePackage(ctx, p))
	}

	enabled, err := repo.ListPackages(ctx, true)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, "Small", enabled[0].Name)
	assert.Equal(t, "Big", enabled[1].Name)

	updated, err := repo.UpdatePackage(ctx, hidden.ID, map[string]interface{}{"enabled": true, "memory_limit": 2048})
	require.NoError(t, err)
	assert.True(t, updated.Enabled)
	assert.Equal(t, int64(2048), updated.MemoryLimit)

	_, err = repo.GetPackage(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.CreatePurchase(ctx, &ds.Purchase{UserID: 1, PackageID: &big.ID, Price: 900, CreatedAt: time.Now()}))
	assert.ErrorIs(t, repo.DeletePackage(ctx, big.ID), ErrInUse)
	assert.NoError(t, repo.DeletePackage(ctx, small.ID))
	assert.ErrorIs(t, repo.DeletePackage(ctx, small.ID), ErrNotFound)
}

func TestResourceCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	maxAmount := int64(64)
	res := &ds.IndividualResource{
		Name:          "Memory",
		ResourceType:  ds.MemoryLimit,
		Unit:          "GB",
		PricePerUnit:  10,
		MinimumAmount: 1,
		MaximumAmount: &maxAmount,
		Enabled:       true,
	}
	require.NoError(t, repo.CreateResource(ctx, res))

	updated, err := repo.UpdateResource(ctx, res.ID, map[string]interface{}{"maximum_amount": nil})
	require.NoError(t, err)
	assert.Nil(t, updated.MaximumAmount)

	list, err := repo.ListResources(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteResource(ctx, res.ID))
	_, err = repo.GetResource(ctx, res.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.SaveSettings(ctx, map[string]string{"store_enabled": "true", "global_discount": "5"}))
	require.NoError(t, repo.SaveSettings(ctx, map[string]string{"global_discount": "7.5"}))

	kv, err := repo.AllSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"store_enabled": "true", "global_discount": "7.5"}, kv)
}

func TestInvoicingEligibility(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	ok, err := repo.InvoicingEnabled(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SaveBillingProfile(ctx, &ds.BillingProfile{UserID: 1, Email: "a@example.test", InvoicingEnabled: true}))
	ok, err = repo.InvoicingEnabled(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.SaveBillingProfile(ctx, &ds.BillingProfile{UserID: 1, Email: "a@example.test", InvoicingEnabled: false}))
	ok, err = repo.InvoicingEnabled(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
