package sales

import (
	"strings"

	"github.com/salesdash/backend/internal/domain/shared"
)

// Default attribute values applied when ingested rows omit customer fields.
const (
	DefaultCustomerName   = "Unknown Customer"
	DefaultCustomerRegion = "Global"
	DefaultCustomerType   = "Business"
)

// Customer is a reference-data entity created lazily during ingestion.
// Name acts as the natural key; attributes are never updated after creation.
type Customer struct {
	shared.BaseEntity
	Name   string
	Region string
	Type   string
}

// NewCustomer creates a customer, substituting defaults for blank attributes.
func NewCustomer(name, region, customerType string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name is required")
	}
	if region == "" {
		region = DefaultCustomerRegion
	}
	if customerType == "" {
		customerType = DefaultCustomerType
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Region:     region,
		Type:       customerType,
	}, nil
}
