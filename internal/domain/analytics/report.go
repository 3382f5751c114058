package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductRanking is one entry of a report's top-products list,
// ranked by total units sold within the report window.
type ProductRanking struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// CustomerRanking is one entry of a report's top-customers list,
// ranked by total spend within the report window.
type CustomerRanking struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}

// RegionStat aggregates revenue for one customer region.
type RegionStat struct {
	Region       string          `json:"region"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	OrderCount   int64           `json:"order_count"`
}

// CategoryStat aggregates revenue for one product category.
type CategoryStat struct {
	Category     string          `json:"category"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	OrderCount   int64           `json:"order_count"`
}

// Report is an immutable snapshot of aggregated sales statistics over
// the [StartDate, EndDate] window. Reports are never recomputed in place;
// each generation inserts a new snapshot.
type Report struct {
	shared.BaseEntity
	ReportDate    time.Time
	StartDate     time.Time
	EndDate       time.Time
	TotalRevenue  decimal.Decimal
	OrderCount    int64
	AvgOrderValue decimal.Decimal
	TopProducts   []ProductRanking
	TopCustomers  []CustomerRanking
	RegionStats   []RegionStat
	CategoryStats []CategoryStat
}

// NewReport assembles a report snapshot from aggregation results.
// AvgOrderValue is TotalRevenue / OrderCount, or zero when there are no orders.
func NewReport(start, end time.Time, totalRevenue decimal.Decimal, orderCount int64,
	topProducts []ProductRanking, topCustomers []CustomerRanking,
	regionStats []RegionStat, categoryStats []CategoryStat) *Report {

	avg := decimal.Zero
	if orderCount > 0 {
		avg = totalRevenue.Div(decimal.NewFromInt(orderCount))
	}

	return &Report{
		BaseEntity:    shared.NewBaseEntity(),
		ReportDate:    time.Now(),
		StartDate:     start,
		EndDate:       end,
		TotalRevenue:  totalRevenue,
		OrderCount:    orderCount,
		AvgOrderValue: avg,
		TopProducts:   topProducts,
		TopCustomers:  topCustomers,
		RegionStats:   regionStats,
		CategoryStats: categoryStats,
	}
}
