package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sale is one transaction line linking a customer, a product, a quantity,
// a revenue amount, and a date. Immutable once created.
//
// TotalRevenue is independent of Quantity multiplied by the product price:
// it may be supplied directly by the source row or derived when absent.
// ReportDate is the transaction timestamp, distinct from ingestion time.
type Sale struct {
	shared.BaseEntity
	CustomerID   uuid.UUID
	ProductID    uuid.UUID
	Quantity     int
	TotalRevenue decimal.Decimal
	ReportDate   time.Time
}

// NewSale creates a sale referencing already-resolved customer and product IDs.
func NewSale(customerID, productID uuid.UUID, quantity int, totalRevenue decimal.Decimal, reportDate time.Time) (*Sale, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale requires a customer reference")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale requires a product reference")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale quantity must be positive")
	}
	if reportDate.IsZero() {
		reportDate = time.Now()
	}
	return &Sale{
		BaseEntity:   shared.NewBaseEntity(),
		CustomerID:   customerID,
		ProductID:    productID,
		Quantity:     quantity,
		TotalRevenue: totalRevenue,
		ReportDate:   reportDate,
	}, nil
}
