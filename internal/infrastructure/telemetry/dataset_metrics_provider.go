// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormDatasetMetricsProvider implements DatasetMetricsProvider using GORM.
// It queries the dataset tables directly for row counts.
type GormDatasetMetricsProvider struct {
	db *gorm.DB
}

// NewGormDatasetMetricsProvider creates a new GormDatasetMetricsProvider.
func NewGormDatasetMetricsProvider(db *gorm.DB) *GormDatasetMetricsProvider {
	return &GormDatasetMetricsProvider{db: db}
}

// CountCustomers returns the number of stored customers.
func (p *GormDatasetMetricsProvider) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Table("customers").Count(&count).Error
	return count, err
}

// CountProducts returns the number of stored products.
func (p *GormDatasetMetricsProvider) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Table("products").Count(&count).Error
	return count, err
}

// CountSales returns the number of stored sale records.
func (p *GormDatasetMetricsProvider) CountSales(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Table("sales").Count(&count).Error
	return count, err
}

var _ DatasetMetricsProvider = (*GormDatasetMetricsProvider)(nil)
