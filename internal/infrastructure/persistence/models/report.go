package models

import (
	"encoding/json"
	"time"

	"github.com/salesdash/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

// ReportModel is the persistence model for the analytics Report entity.
// Ranking and breakdown slices are stored as JSON documents; reports are
// immutable snapshots so the denormalized form never needs updating.
type ReportModel struct {
	BaseModel
	ReportDate    time.Time       `gorm:"not null;index"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       time.Time       `gorm:"not null"`
	TotalRevenue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OrderCount    int64           `gorm:"not null;default:0"`
	AvgOrderValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TopProducts   string          `gorm:"type:jsonb;default:'[]'"`
	TopCustomers  string          `gorm:"type:jsonb;default:'[]'"`
	RegionStats   string          `gorm:"type:jsonb;default:'[]'"`
	CategoryStats string          `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts the persistence model to a domain Report entity.
func (m *ReportModel) ToDomain() (*analytics.Report, error) {
	report := &analytics.Report{
		BaseEntity:    m.BaseModel.ToDomain(),
		ReportDate:    m.ReportDate,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		TotalRevenue:  m.TotalRevenue,
		OrderCount:    m.OrderCount,
		AvgOrderValue: m.AvgOrderValue,
	}

	if err := unmarshalJSONColumn(m.TopProducts, &report.TopProducts); err != nil {
		return nil, err
	}
	if err := unmarshalJSONColumn(m.TopCustomers, &report.TopCustomers); err != nil {
		return nil, err
	}
	if err := unmarshalJSONColumn(m.RegionStats, &report.RegionStats); err != nil {
		return nil, err
	}
	if err := unmarshalJSONColumn(m.CategoryStats, &report.CategoryStats); err != nil {
		return nil, err
	}

	return report, nil
}

// FromDomain populates the persistence model from a domain Report entity.
func (m *ReportModel) FromDomain(r *analytics.Report) error {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.ReportDate = r.ReportDate
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.TotalRevenue = r.TotalRevenue
	m.OrderCount = r.OrderCount
	m.AvgOrderValue = r.AvgOrderValue

	var err error
	if m.TopProducts, err = marshalJSONColumn(r.TopProducts); err != nil {
		return err
	}
	if m.TopCustomers, err = marshalJSONColumn(r.TopCustomers); err != nil {
		return err
	}
	if m.RegionStats, err = marshalJSONColumn(r.RegionStats); err != nil {
		return err
	}
	if m.CategoryStats, err = marshalJSONColumn(r.CategoryStats); err != nil {
		return err
	}

	return nil
}

// ReportModelFromDomain creates a new persistence model from a domain Report entity.
func ReportModelFromDomain(r *analytics.Report) (*ReportModel, error) {
	m := &ReportModel{}
	if err := m.FromDomain(r); err != nil {
		return nil, err
	}
	return m, nil
}

func marshalJSONColumn(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalJSONColumn(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
