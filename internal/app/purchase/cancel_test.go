package purchase_test

import (
	"context"
	"errors"
	"testing"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/purchase"
	"resourceshop/internal/app/repository"
	"resourceshop/internal/app/settings"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// cancellingLedger cancels the caller's request while the first grant is in flight.
type cancellingLedger struct {
	*repository.Repository
	cancel context.CancelFunc
	fail   error
}

func (l *cancellingLedger) AddUserResource(ctx context.Context, userID uint, t ds.ResourceType, amount int64) error {
	l.cancel()
	if l.fail != nil {
		return l.fail
	}
	return l.Repository.AddUserResource(ctx, userID, t, amount)
}

func newSQLiteRepository(t *testing.T) *repository.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: repository.NewGormLogger().LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.Migrate(db))

	return repository.NewFromDB(db)
}

func TestPurchasePackageSurvivesClientCancel(t *testing.T) {
	tests := []struct {
		name        string
		fail        error
		wantCode    purchase.Code
		wantBalance int64
		wantMemory  int64
	}{
		{
			name:        "grant completes after cancel",
			wantBalance: 200,
			wantMemory:  2048,
		},
		{
			name:        "grant fails after cancel and is refunded",
			fail:        errors.New("panel unavailable"),
			wantCode:    purchase.CodeResourceAdditionFailed,
			wantBalance: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newSQLiteRepository(t)
			bg := context.Background()

			pkg := &ds.ResourcePackage{
				Name:      "Starter",
				Resources: ds.Resources{MemoryLimit: 2048, ServerLimit: 1},
				Price:     1000,
				Enabled:   true,
				Discount:  ds.Discount{DiscountPercentage: 20, DiscountEnabled: true},
			}
			require.NoError(t, repo.CreatePackage(bg, pkg))
			require.NoError(t, repo.Credit(bg, buyer, 1000))

			ctx, cancel := context.WithCancel(bg)
			defer cancel()

			svc := purchase.NewService(purchase.Deps{
				Catalog:   repo,
				Credits:   repo,
				Resources: &cancellingLedger{Repository: repo, cancel: cancel, fail: tt.fail},
				History:   repo,
				Settings:  settings.NewStore(repo, nil, 0),
			}, purchase.Options{})

			receipt, err := svc.PurchasePackage(ctx, buyer, pkg.ID)
			if tt.wantCode != "" {
				requireCode(t, err, tt.wantCode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantBalance, receipt.CreditsRemaining)
			}

			balance, err := repo.Balance(bg, buyer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)

			granted, err := repo.UserResources(bg, buyer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMemory, granted.MemoryLimit)
		})
	}
}
