package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/salesdash/backend/internal/domain/sales"
	"github.com/salesdash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Resolver finds or creates the customer and product referenced by a sale
// row. Names are the natural keys; attributes of an existing entity are
// never updated on later sightings.
//
// Resolved entities are cached for the lifetime of the Resolver, which is
// one ingestion run. The cache is not safe for concurrent use; rows within
// a run are resolved sequentially.
type Resolver struct {
	customers sales.CustomerRepository
	products  sales.ProductRepository
	logger    *zap.Logger

	customerCache map[string]*sales.Customer
	productCache  map[string]*sales.Product
}

// NewResolver creates a Resolver with empty caches.
func NewResolver(customers sales.CustomerRepository, products sales.ProductRepository, logger *zap.Logger) *Resolver {
	return &Resolver{
		customers:     customers,
		products:      products,
		logger:        logger,
		customerCache: make(map[string]*sales.Customer),
		productCache:  make(map[string]*sales.Product),
	}
}

// ResolveCustomer returns the customer with the given name, creating it
// with the fallback attributes when it does not exist yet. A unique
// constraint on the name closes the race with concurrent ingestions: a
// conflicting insert falls back to re-fetching the winner's row.
func (r *Resolver) ResolveCustomer(ctx context.Context, name, region, customerType string) (*sales.Customer, error) {
	if cached, ok := r.customerCache[name]; ok {
		return cached, nil
	}

	customer, err := r.customers.FindByName(ctx, name)
	if err == nil {
		r.customerCache[name] = customer
		return customer, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up customer %q: %w", name, err)
	}

	customer, err = sales.NewCustomer(name, region, customerType)
	if err != nil {
		return nil, err
	}

	if err := r.customers.Save(ctx, customer); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create customer %q: %w", name, err)
		}
		// Lost the insert race; the winner's row is authoritative.
		r.logger.Debug("Customer created concurrently, re-fetching", zap.String("name", name))
		customer, err = r.customers.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to re-fetch customer %q after conflict: %w", name, err)
		}
	}

	r.customerCache[name] = customer
	return customer, nil
}

// ResolveProduct returns the product with the given name, creating it with
// the fallback category and price when it does not exist yet. The price
// recorded at first sighting sticks; later rows with a different price do
// not update it.
func (r *Resolver) ResolveProduct(ctx context.Context, name, category string, price decimal.Decimal) (*sales.Product, error) {
	if cached, ok := r.productCache[name]; ok {
		return cached, nil
	}

	product, err := r.products.FindByName(ctx, name)
	if err == nil {
		r.productCache[name] = product
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up product %q: %w", name, err)
	}

	product, err = sales.NewProduct(name, category, price)
	if err != nil {
		return nil, err
	}

	if err := r.products.Save(ctx, product); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create product %q: %w", name, err)
		}
		r.logger.Debug("Product created concurrently, re-fetching", zap.String("name", name))
		product, err = r.products.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to re-fetch product %q after conflict: %w", name, err)
		}
	}

	r.productCache[name] = product
	return product, nil
}
