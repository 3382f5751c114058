package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesStatsRepository implements analytics.SalesStatsRepository using GORM.
// All queries treat [start, end] as inclusive on both ends.
type GormSalesStatsRepository struct {
	db *gorm.DB
}

// NewGormSalesStatsRepository creates a new GormSalesStatsRepository
func NewGormSalesStatsRepository(db *gorm.DB) *GormSalesStatsRepository {
	return &GormSalesStatsRepository{db: db}
}

// TotalRevenue returns the revenue sum over the period
func (r *GormSalesStatsRepository) TotalRevenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	type revenueResult struct {
		TotalRevenue decimal.Decimal
	}

	var result revenueResult
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("COALESCE(SUM(total_revenue), 0) as total_revenue").
		Where("report_date BETWEEN ? AND ?", start, end).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}

	return result.TotalRevenue, nil
}

// CountSales returns the number of sales in the period
func (r *GormSalesStatsRepository) CountSales(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("sales").
		Where("report_date BETWEEN ? AND ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// TopProducts returns up to limit products ranked by units sold, descending.
// Products tied on units come back in storage order.
func (r *GormSalesStatsRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]analytics.ProductRanking, error) {
	type rankingResult struct {
		ProductID   uuid.UUID
		ProductName string
		TotalSales  decimal.Decimal
	}

	var results []rankingResult
	err := r.db.WithContext(ctx).
		Table("sales s").
		Select(`
			s.product_id,
			p.name as product_name,
			COALESCE(SUM(s.quantity), 0) as total_sales
		`).
		Joins("JOIN products p ON p.id = s.product_id").
		Where("s.report_date BETWEEN ? AND ?", start, end).
		Group("s.product_id, p.name").
		Order("total_sales DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rankings := make([]analytics.ProductRanking, len(results))
	for i, res := range results {
		rankings[i] = analytics.ProductRanking{
			ProductID:   res.ProductID,
			ProductName: res.ProductName,
			TotalSales:  res.TotalSales,
		}
	}
	return rankings, nil
}

// TopCustomers returns up to limit customers ranked by spend, descending.
func (r *GormSalesStatsRepository) TopCustomers(ctx context.Context, start, end time.Time, limit int) ([]analytics.CustomerRanking, error) {
	type rankingResult struct {
		CustomerID   uuid.UUID
		CustomerName string
		TotalSpent   decimal.Decimal
	}

	var results []rankingResult
	err := r.db.WithContext(ctx).
		Table("sales s").
		Select(`
			s.customer_id,
			c.name as customer_name,
			COALESCE(SUM(s.total_revenue), 0) as total_spent
		`).
		Joins("JOIN customers c ON c.id = s.customer_id").
		Where("s.report_date BETWEEN ? AND ?", start, end).
		Group("s.customer_id, c.name").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rankings := make([]analytics.CustomerRanking, len(results))
	for i, res := range results {
		rankings[i] = analytics.CustomerRanking{
			CustomerID:   res.CustomerID,
			CustomerName: res.CustomerName,
			TotalSpent:   res.TotalSpent,
		}
	}
	return rankings, nil
}

// RevenueByRegion returns revenue and order counts grouped by customer region
func (r *GormSalesStatsRepository) RevenueByRegion(ctx context.Context, start, end time.Time) ([]analytics.RegionStat, error) {
	type regionResult struct {
		Region       string
		TotalRevenue decimal.Decimal
		OrderCount   int64
	}

	var results []regionResult
	err := r.db.WithContext(ctx).
		Table("sales s").
		Select(`
			c.region,
			COALESCE(SUM(s.total_revenue), 0) as total_revenue,
			COUNT(s.id) as order_count
		`).
		Joins("JOIN customers c ON c.id = s.customer_id").
		Where("s.report_date BETWEEN ? AND ?", start, end).
		Group("c.region").
		Order("total_revenue DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := make([]analytics.RegionStat, len(results))
	for i, res := range results {
		stats[i] = analytics.RegionStat{
			Region:       res.Region,
			TotalRevenue: res.TotalRevenue,
			OrderCount:   res.OrderCount,
		}
	}
	return stats, nil
}

// RevenueByCategory returns revenue and order counts grouped by product category
func (r *GormSalesStatsRepository) RevenueByCategory(ctx context.Context, start, end time.Time) ([]analytics.CategoryStat, error) {
	type categoryResult struct {
		Category     string
		TotalRevenue decimal.Decimal
		OrderCount   int64
	}

	var results []categoryResult
	err := r.db.WithContext(ctx).
		Table("sales s").
		Select(`
			p.category,
			COALESCE(SUM(s.total_revenue), 0) as total_revenue,
			COUNT(s.id) as order_count
		`).
		Joins("JOIN products p ON p.id = s.product_id").
		Where("s.report_date BETWEEN ? AND ?", start, end).
		Group("p.category").
		Order("total_revenue DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := make([]analytics.CategoryStat, len(results))
	for i, res := range results {
		stats[i] = analytics.CategoryStat{
			Category:     res.Category,
			TotalRevenue: res.TotalRevenue,
			OrderCount:   res.OrderCount,
		}
	}
	return stats, nil
}

// Ensure GormSalesStatsRepository implements SalesStatsRepository
var _ analytics.SalesStatsRepository = (*GormSalesStatsRepository)(nil)
