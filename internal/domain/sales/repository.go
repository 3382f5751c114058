package sales

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository provides access to customer reference data
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindByName performs an exact-match lookup; returns shared.ErrNotFound on miss
	FindByName(ctx context.Context, name string) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Count(ctx context.Context) (int64, error)
}

// ProductRepository provides access to product reference data
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByName performs an exact-match lookup; returns shared.ErrNotFound on miss
	FindByName(ctx context.Context, name string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Count(ctx context.Context) (int64, error)
}

// SaleRepository provides append-only access to sale records
type SaleRepository interface {
	Save(ctx context.Context, sale *Sale) error
	// SaveBatch persists a batch of sales in a single statement
	SaveBatch(ctx context.Context, batch []*Sale) error
	Count(ctx context.Context) (int64, error)
}
