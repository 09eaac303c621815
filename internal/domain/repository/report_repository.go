package repository

import (
	"context"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DailySalesResult is the gross of one calendar day
type DailySalesResult struct {
	Date       string          `db:"day"`
	Revenue    decimal.Decimal `db:"revenue"`
	OrderCount int             `db:"order_count"`
}

// SalesSummary aggregates orders in a time window
type SalesSummary struct {
	Gross      decimal.Decimal `db:"gross"`
	OrderCount int64           `db:"order_count"`
	VoidCount  int64           `db:"void_count"`
}

// ReportRepository defines read-only aggregation queries for reports and the dashboard
type ReportRepository interface {
	// StoreLogsSince returns log entries at or after since (all entries when since is nil), oldest first.
	StoreLogsSince(ctx context.Context, since *time.Time) ([]entity.StoreHoursLog, error)
	// OrdersSince returns non-void orders at or after since (all when nil), oldest first.
	OrdersSince(ctx context.Context, since *time.Time) ([]entity.Order, error)
	// GrossBefore sums non-void order totals strictly before t.
	GrossBefore(ctx context.Context, t time.Time) (decimal.Decimal, error)
	// Summary aggregates orders created in [from, to) for branch ("" for all branches).
	Summary(ctx context.Context, branch string, from, to time.Time) (*SalesSummary, error)
	// DailySales returns non-void gross per day in [from, to) for branch.
	DailySales(ctx context.Context, branch string, from, to time.Time) ([]DailySalesResult, error)
}
