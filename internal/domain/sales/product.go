package sales

import (
	"strings"

	"github.com/salesdash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Default attribute values applied when ingested rows omit product fields.
const (
	DefaultProductName     = "Unknown Product"
	DefaultProductCategory = "General"
)

// Product is a reference-data entity created lazily during ingestion.
// Name acts as the natural key; Price is the unit price observed at first
// sighting and is not updated on later sightings of the same name.
type Product struct {
	shared.BaseEntity
	Name     string
	Category string
	Price    decimal.Decimal
}

// NewProduct creates a product, substituting defaults for blank attributes.
// A negative price is rejected; zero is allowed (rows without a price column).
func NewProduct(name, category string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product price cannot be negative")
	}
	if category == "" {
		category = DefaultProductCategory
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Category:   category,
		Price:      price,
	}, nil
}
