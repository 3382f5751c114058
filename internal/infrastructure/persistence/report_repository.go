package persistence

import (
	"context"

	"github.com/salesdash/backend/internal/domain/analytics"
	"github.com/salesdash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements analytics.ReportRepository using GORM.
// Reports are append-only snapshots; saved reports are never modified.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Save persists a report snapshot
func (r *GormReportRepository) Save(ctx context.Context, report *analytics.Report) error {
	model, err := models.ReportModelFromDomain(report)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll returns all stored reports, newest first
func (r *GormReportRepository) FindAll(ctx context.Context) ([]analytics.Report, error) {
	var reportModels []models.ReportModel
	if err := r.db.WithContext(ctx).
		Order("report_date DESC").
		Find(&reportModels).Error; err != nil {
		return nil, err
	}

	reports := make([]analytics.Report, len(reportModels))
	for i, model := range reportModels {
		report, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		reports[i] = *report
	}
	return reports, nil
}

// Ensure GormReportRepository implements ReportRepository
var _ analytics.ReportRepository = (*GormReportRepository)(nil)
