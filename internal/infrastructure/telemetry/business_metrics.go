// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the analytics backend.
// It tracks CSV ingestion activity, report generation, and dataset size.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	ingestRunsTotal       *Counter
	ingestRowsTotal       *Counter
	reportsGeneratedTotal *Counter
	reportRevenueTotal    *Counter

	// Histogram metrics
	ingestDuration *Histogram

	// Gauge metrics (point-in-time values)
	customerCount *Gauge
	productCount  *Gauge
	saleCount     *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	datasetProvider DatasetMetricsProvider
}

// DatasetMetricsProvider provides dataset sizes for periodic metrics collection.
// This interface lets the telemetry layer observe the stored dataset without
// depending on the persistence layer directly.
type DatasetMetricsProvider interface {
	// CountCustomers returns the number of stored customers.
	CountCustomers(ctx context.Context) (int64, error)

	// CountProducts returns the number of stored products.
	CountProducts(ctx context.Context) (int64, error)

	// CountSales returns the number of stored sale records.
	CountSales(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	DatasetProvider DatasetMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		datasetProvider: cfg.DatasetProvider,
	}

	var err error

	// Ingestion metrics
	bm.ingestRunsTotal, err = NewCounter(
		cfg.Meter,
		"salesdash_ingest_runs_total",
		"Total number of CSV ingestion runs",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	bm.ingestRowsTotal, err = NewCounter(
		cfg.Meter,
		"salesdash_ingest_rows_total",
		"Total number of CSV rows seen during ingestion",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	bm.ingestDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "salesdash_ingest_duration_seconds",
		Description: "Duration of CSV ingestion runs",
		Unit:        "s",
		Boundaries:  IngestDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	// Reporting metrics
	bm.reportsGeneratedTotal, err = NewCounter(
		cfg.Meter,
		"salesdash_reports_generated_total",
		"Total number of analytics reports generated",
		"{reports}",
	)
	if err != nil {
		return nil, err
	}

	bm.reportRevenueTotal, err = NewCounter(
		cfg.Meter,
		"salesdash_report_revenue_total",
		"Total revenue covered by generated reports, in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Dataset gauge metrics
	bm.customerCount, err = NewGauge(
		cfg.Meter,
		"salesdash_customers_count",
		"Number of stored customers",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	bm.productCount, err = NewGauge(
		cfg.Meter,
		"salesdash_products_count",
		"Number of stored products",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	bm.saleCount, err = NewGauge(
		cfg.Meter,
		"salesdash_sales_count",
		"Number of stored sale records",
		"{sales}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Ingestion Metrics
// =============================================================================

// IngestStatus represents the outcome of an ingestion run for metrics labeling.
type IngestStatus string

const (
	IngestStatusSuccess IngestStatus = "success"
	IngestStatusFailed  IngestStatus = "failed"
)

// RowStatus represents the outcome of a single CSV row for metrics labeling.
type RowStatus string

const (
	RowStatusProcessed RowStatus = "processed"
	RowStatusSkipped   RowStatus = "skipped"
)

// RecordIngestRun records a completed CSV ingestion run with its duration.
func (bm *BusinessMetrics) RecordIngestRun(ctx context.Context, status IngestStatus, elapsed time.Duration) {
	bm.ingestRunsTotal.Inc(ctx, AttrIngestStatus.String(string(status)))
	bm.ingestDuration.RecordDuration(ctx, elapsed, AttrIngestStatus.String(string(status)))
}

// RecordIngestRows records how many rows an ingestion run processed or skipped.
func (bm *BusinessMetrics) RecordIngestRows(ctx context.Context, status RowStatus, rows int64) {
	if rows <= 0 {
		return
	}
	bm.ingestRowsTotal.Add(ctx, rows, AttrIngestStatus.String(string(status)))
}

// =============================================================================
// Reporting Metrics
// =============================================================================

// RecordReportGenerated records a generated report and the revenue it covers.
func (bm *BusinessMetrics) RecordReportGenerated(ctx context.Context, totalRevenue decimal.Decimal) {
	bm.reportsGeneratedTotal.Inc(ctx)

	// Convert to cents so the counter stays integral
	cents := totalRevenue.Mul(decimal.NewFromInt(100)).IntPart()
	if cents > 0 {
		bm.reportRevenueTotal.Add(ctx, cents)
	}
}

// =============================================================================
// Dataset Metrics
// =============================================================================

// RecordDatasetSizes records the current dataset gauge values.
func (bm *BusinessMetrics) RecordDatasetSizes(ctx context.Context, customers, products, sales int64) {
	bm.customerCount.Record(ctx, customers)
	bm.productCount.Record(ctx, products)
	bm.saleCount.Record(ctx, sales)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of dataset gauge metrics.
// It is non-blocking; use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectDatasetMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectDatasetMetrics(ctx)
		}
	}
}

// collectDatasetMetrics collects dataset gauge metrics from the provider.
func (bm *BusinessMetrics) collectDatasetMetrics(ctx context.Context) {
	if bm.datasetProvider == nil {
		bm.logger.Debug("No dataset provider configured, skipping dataset metrics collection")
		return
	}

	customers, err := bm.datasetProvider.CountCustomers(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count customers for metrics collection", zap.Error(err))
		return
	}

	products, err := bm.datasetProvider.CountProducts(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count products for metrics collection", zap.Error(err))
		return
	}

	sales, err := bm.datasetProvider.CountSales(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count sales for metrics collection", zap.Error(err))
		return
	}

	bm.RecordDatasetSizes(ctx, customers, products, sales)
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
