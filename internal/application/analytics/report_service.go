package analyticsapp

import (
	"context"
	"fmt"

	"github.com/salesdash/backend/internal/application/ingest"
	"github.com/salesdash/backend/internal/domain/analytics"
	"github.com/salesdash/backend/internal/domain/shared"
	"github.com/salesdash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultTopLimit is the ranking length used when none is configured.
const DefaultTopLimit = 5

// ReportService generates and lists sales report snapshots.
type ReportService struct {
	stats    analytics.SalesStatsRepository
	reports  analytics.ReportRepository
	logger   *zap.Logger
	metrics  *telemetry.BusinessMetrics
	topLimit int
}

// ReportServiceOption configures a ReportService.
type ReportServiceOption func(*ReportService)

// WithTopLimit overrides the ranking length of top-products and
// top-customers lists.
func WithTopLimit(n int) ReportServiceOption {
	return func(s *ReportService) {
		if n > 0 {
			s.topLimit = n
		}
	}
}

// WithMetrics attaches report counters. A nil recorder disables them.
func WithMetrics(bm *telemetry.BusinessMetrics) ReportServiceOption {
	return func(s *ReportService) {
		s.metrics = bm
	}
}

// NewReportService creates a ReportService.
func NewReportService(
	stats analytics.SalesStatsRepository,
	reports analytics.ReportRepository,
	logger *zap.Logger,
	opts ...ReportServiceOption,
) *ReportService {
	s := &ReportService{
		stats:    stats,
		reports:  reports,
		logger:   logger,
		topLimit: DefaultTopLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate aggregates sales over the inclusive [startDate, endDate] window,
// persists the snapshot, and returns it. Date strings follow the same
// parsing policy as CSV ingestion.
func (s *ReportService) Generate(ctx context.Context, startDate, endDate string) (*analytics.Report, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "analytics_report", "generate")
	defer span.End()

	start, err := ingest.ParseReportDate(startDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RANGE", fmt.Sprintf("invalid start date %q", startDate))
	}
	end, err := ingest.ParseReportDate(endDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RANGE", fmt.Sprintf("invalid end date %q", endDate))
	}
	if end.Before(start) {
		return nil, shared.ErrInvalidRange
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrStartDate, start.Format("2006-01-02"),
		telemetry.SpanAttrEndDate, end.Format("2006-01-02"),
	)

	totalRevenue, err := s.stats.TotalRevenue(ctx, start, end)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to compute total revenue: %w", err)
	}
	orderCount, err := s.stats.CountSales(ctx, start, end)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}
	topProducts, err := s.stats.TopProducts(ctx, start, end, s.topLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	topCustomers, err := s.stats.TopCustomers(ctx, start, end, s.topLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}
	regionStats, err := s.stats.RevenueByRegion(ctx, start, end)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to aggregate regions: %w", err)
	}
	categoryStats, err := s.stats.RevenueByCategory(ctx, start, end)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}

	report := analytics.NewReport(start, end, totalRevenue, orderCount,
		topProducts, topCustomers, regionStats, categoryStats)

	if err := s.reports.Save(ctx, report); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrReportID, report.ID,
		telemetry.SpanAttrOrderCount, orderCount,
	)
	telemetry.SetOK(span)

	if s.metrics != nil {
		s.metrics.RecordReportGenerated(ctx, report.TotalRevenue)
	}
	s.logger.Info("Report generated",
		zap.String("report_id", report.ID.String()),
		zap.Time("start_date", start),
		zap.Time("end_date", end),
		zap.Int64("order_count", orderCount),
		zap.String("total_revenue", totalRevenue.String()),
	)

	return report, nil
}

// ListReports returns all stored report snapshots, newest first.
func (s *ReportService) ListReports(ctx context.Context) ([]analytics.Report, error) {
	reports, err := s.reports.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
