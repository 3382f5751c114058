package dto

import (
	"time"

	"github.com/salesdash/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

// ReportResponse is the API projection of a stored report snapshot.
type ReportResponse struct {
	ID            string                    `json:"id"`
	ReportDate    time.Time                 `json:"reportDate"`
	StartDate     time.Time                 `json:"startDate"`
	EndDate       time.Time                 `json:"endDate"`
	TotalRevenue  decimal.Decimal           `json:"totalRevenue"`
	OrderCount    int64                     `json:"orderCount"`
	AvgOrderValue decimal.Decimal           `json:"avgOrderValue"`
	TopProducts   []ProductRankingResponse  `json:"topProducts"`
	TopCustomers  []CustomerRankingResponse `json:"topCustomers"`
	RegionStats   []RegionStatResponse      `json:"regionStats"`
	CategoryStats []CategoryStatResponse    `json:"categoryStats"`
}

// ProductRankingResponse is one top-products entry.
type ProductRankingResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	TotalSales  decimal.Decimal `json:"totalSales"`
}

// CustomerRankingResponse is one top-customers entry.
type CustomerRankingResponse struct {
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

// RegionStatResponse aggregates revenue for one customer region.
type RegionStatResponse struct {
	Region       string          `json:"region"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	OrderCount   int64           `json:"orderCount"`
}

// CategoryStatResponse aggregates revenue for one product category.
type CategoryStatResponse struct {
	Category     string          `json:"category"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	OrderCount   int64           `json:"orderCount"`
}

// ToReportResponse converts a domain report to its API projection.
// Empty ranking slices stay non-nil so the JSON renders [] instead of null.
func ToReportResponse(report *analytics.Report) ReportResponse {
	topProducts := make([]ProductRankingResponse, 0, len(report.TopProducts))
	for _, p := range report.TopProducts {
		topProducts = append(topProducts, ProductRankingResponse{
			ProductID:   p.ProductID.String(),
			ProductName: p.ProductName,
			TotalSales:  p.TotalSales,
		})
	}

	topCustomers := make([]CustomerRankingResponse, 0, len(report.TopCustomers))
	for _, c := range report.TopCustomers {
		topCustomers = append(topCustomers, CustomerRankingResponse{
			CustomerID:   c.CustomerID.String(),
			CustomerName: c.CustomerName,
			TotalSpent:   c.TotalSpent,
		})
	}

	regionStats := make([]RegionStatResponse, 0, len(report.RegionStats))
	for _, r := range report.RegionStats {
		regionStats = append(regionStats, RegionStatResponse{
			Region:       r.Region,
			TotalRevenue: r.TotalRevenue,
			OrderCount:   r.OrderCount,
		})
	}

	categoryStats := make([]CategoryStatResponse, 0, len(report.CategoryStats))
	for _, c := range report.CategoryStats {
		categoryStats = append(categoryStats, CategoryStatResponse{
			Category:     c.Category,
			TotalRevenue: c.TotalRevenue,
			OrderCount:   c.OrderCount,
		})
	}

	return ReportResponse{
		ID:            report.ID.String(),
		ReportDate:    report.ReportDate,
		StartDate:     report.StartDate,
		EndDate:       report.EndDate,
		TotalRevenue:  report.TotalRevenue,
		OrderCount:    report.OrderCount,
		AvgOrderValue: report.AvgOrderValue,
		TopProducts:   topProducts,
		TopCustomers:  topCustomers,
		RegionStats:   regionStats,
		CategoryStats: categoryStats,
	}
}

// ToReportResponses converts a slice of domain reports.
func ToReportResponses(reports []analytics.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, ToReportResponse(&reports[i]))
	}
	return out
}

// ReportRequest carries the query parameters of a report generation call.
type ReportRequest struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
}
