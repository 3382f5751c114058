package persistence

import (
	"context"

	"github.com/salesdash/backend/internal/domain/sales"
	"github.com/salesdash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM.
// Sales are append-only; there is no update or delete path.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save persists a single sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveBatch persists a batch of sales in a single insert
func (r *GormSaleRepository) SaveBatch(ctx context.Context, batch []*sales.Sale) error {
	if len(batch) == 0 {
		return nil
	}
	saleModels := make([]*models.SaleModel, len(batch))
	for i, s := range batch {
		saleModels[i] = models.SaleModelFromDomain(s)
	}
	return r.db.WithContext(ctx).Create(saleModels).Error
}

// Count counts all sales
func (r *GormSaleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
