package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesStatsRepository computes aggregate statistics over the sale records.
// All windows are inclusive on both ends.
type SalesStatsRepository interface {
	TotalRevenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	CountSales(ctx context.Context, start, end time.Time) (int64, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductRanking, error)
	TopCustomers(ctx context.Context, start, end time.Time, limit int) ([]CustomerRanking, error)
	RevenueByRegion(ctx context.Context, start, end time.Time) ([]RegionStat, error)
	RevenueByCategory(ctx context.Context, start, end time.Time) ([]CategoryStat, error)
}

// ReportRepository is the append-only store for report snapshots.
// No update or delete operations are exposed.
type ReportRepository interface {
	Save(ctx context.Context, report *Report) error
	// FindAll returns stored reports ordered by report date, newest first
	FindAll(ctx context.Context) ([]Report, error)
}
