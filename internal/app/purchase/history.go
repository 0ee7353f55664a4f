package purchase

import (
	"context"
	"time"

	"resourceshop/internal/app/ds"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

type PurchaseEntry struct {
	ID          uint      `json:"id"`
	PackageID   *uint     `json:"package_id"`
	PackageName string    `json:"package_name"`
	Price       int64     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	ds.Resources
}

type PurchasePage struct {
	Purchases []PurchaseEntry `json:"purchases"`
	Page      int             `json:"page"`
	Limit     int             `json:"limit"`
	Total     int64           `json:"total"`
	Pages     int             `json:"pages"`
}

// NormalizePage clamps pagination input: page starts at 1, a missing limit
// means DefaultPageSize and larger limits are cut to MaxPageSize.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return page, limit
}

// ListPurchases returns one page of the user's package purchases, newest first.
func (s *Service) ListPurchases(ctx context.Context, userID uint, page, limit int) (*PurchasePage, error) {
	page, limit = NormalizePage(page, limit)

	rows, total, err := s.history.ListPurchases(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, failed(err)
	}

	entries := make([]PurchaseEntry, 0, len(rows))
	for _, row := range rows {
		entry := PurchaseEntry{
			ID:        row.ID,
			PackageID: row.PackageID,
			Price:     row.Price,
			Resources: row.Resources,
			CreatedAt: row.CreatedAt,
		}
		if row.Package != nil {
			entry.PackageName = row.Package.Name
		}
		entries = append(entries, entry)
	}

	return &PurchasePage{
		Purchases: entries,
		Page:      page,
		Limit:     limit,
		Total:     total,
		Pages:     int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}
