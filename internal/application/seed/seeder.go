package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/salesdash/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// sampleSale is one line of the built-in demo dataset.
type sampleSale struct {
	customer string
	region   string
	ctype    string
	product  string
	category string
	price    string
	quantity int
	daysAgo  int
}

// sampleSales is a small dataset spanning several regions and categories so
// a fresh install renders a non-empty dashboard.
var sampleSales = []sampleSale{
	{"Acme Corp", "North America", "Business", "Widget Pro", "Hardware", "199.99", 3, 2},
	{"Acme Corp", "North America", "Business", "Widget Lite", "Hardware", "49.99", 10, 5},
	{"Globex GmbH", "EMEA", "Business", "Widget Pro", "Hardware", "199.99", 1, 7},
	{"Globex GmbH", "EMEA", "Business", "Dashboard Suite", "Software", "499.00", 2, 9},
	{"Initech Ltd", "EMEA", "Business", "Widget Lite", "Hardware", "49.99", 6, 12},
	{"Umbrella Inc", "APAC", "Enterprise", "Dashboard Suite", "Software", "499.00", 4, 14},
	{"Umbrella Inc", "APAC", "Enterprise", "Support Plan", "Services", "99.00", 12, 20},
	{"Soylent Co", "North America", "SMB", "Support Plan", "Services", "99.00", 2, 25},
}

// Seeder populates an empty database with sample sales data.
type Seeder struct {
	customers sales.CustomerRepository
	products  sales.ProductRepository
	sales     sales.SaleRepository
	logger    *zap.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	customers sales.CustomerRepository,
	products sales.ProductRepository,
	saleRepo sales.SaleRepository,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		customers: customers,
		products:  products,
		sales:     saleRepo,
		logger:    logger,
	}
}

// Run inserts the sample dataset when no sales exist yet. A database that
// already holds data is left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.sales.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing sales: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Skipping seed, sales data already present", zap.Int64("count", count))
		return nil
	}

	customersByName := make(map[string]*sales.Customer)
	productsByName := make(map[string]*sales.Product)
	pending := make([]*sales.Sale, 0, len(sampleSales))

	for _, row := range sampleSales {
		customer, ok := customersByName[row.customer]
		if !ok {
			customer, err = sales.NewCustomer(row.customer, row.region, row.ctype)
			if err != nil {
				return fmt.Errorf("failed to build sample customer %q: %w", row.customer, err)
			}
			if err := s.customers.Save(ctx, customer); err != nil {
				return fmt.Errorf("failed to seed customer %q: %w", row.customer, err)
			}
			customersByName[row.customer] = customer
		}

		product, ok := productsByName[row.product]
		if !ok {
			product, err = sales.NewProduct(row.product, row.category, decimal.RequireFromString(row.price))
			if err != nil {
				return fmt.Errorf("failed to build sample product %q: %w", row.product, err)
			}
			if err := s.products.Save(ctx, product); err != nil {
				return fmt.Errorf("failed to seed product %q: %w", row.product, err)
			}
			productsByName[row.product] = product
		}

		revenue := product.Price.Mul(decimal.NewFromInt(int64(row.quantity)))
		reportDate := time.Now().AddDate(0, 0, -row.daysAgo)
		sale, err := sales.NewSale(customer.ID, product.ID, row.quantity, revenue, reportDate)
		if err != nil {
			return fmt.Errorf("failed to build sample sale: %w", err)
		}
		pending = append(pending, sale)
	}

	if err := s.sales.SaveBatch(ctx, pending); err != nil {
		return fmt.Errorf("failed to seed sales: %w", err)
	}

	s.logger.Info("Seeded sample data",
		zap.Int("customers", len(customersByName)),
		zap.Int("products", len(productsByName)),
		zap.Int("sales", len(pending)),
	)
	return nil
}
