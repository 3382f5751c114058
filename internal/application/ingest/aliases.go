package ingest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/salesdash/backend/internal/domain/sales"
	"github.com/salesdash/backend/internal/infrastructure/csvfile"
	"github.com/shopspring/decimal"
)

// fieldSpec binds a logical sale attribute to the CSV column aliases that
// may carry it. Aliases are checked in order; the first non-blank value
// wins. The alias sets accommodate both the dashboard's own export format
// (camelCase) and the upstream order-system dumps (UPPERCASE).
type fieldSpec struct {
	name    string
	aliases []string
}

var (
	customerNameField   = fieldSpec{"customer name", []string{"customerName", "CUSTOMERNAME"}}
	customerRegionField = fieldSpec{"customer region", []string{"customerRegion", "COUNTRY", "TERRITORY"}}
	customerTypeField   = fieldSpec{"customer type", []string{"customerType"}}
	productNameField    = fieldSpec{"product name", []string{"productName", "PRODUCTLINE", "PRODUCTCODE"}}
	// PRODUCTLINE doubles as the category for order-system dumps that have
	// no separate category column.
	productCategoryField = fieldSpec{"product category", []string{"productCategory", "PRODUCTLINE"}}
	unitPriceField       = fieldSpec{"unit price", []string{"price", "PRICEEACH"}}
	quantityField        = fieldSpec{"quantity", []string{"quantity", "QUANTITYORDERED"}}
	totalRevenueField    = fieldSpec{"total revenue", []string{"totalRevenue", "SALES"}}
	reportDateField      = fieldSpec{"date", []string{"date", "ORDERDATE"}}
)

// lookup returns the first non-blank value among the field's aliases.
func (f fieldSpec) lookup(row *csvfile.Row) string {
	for _, alias := range f.aliases {
		if v := row.Get(alias); v != "" {
			return v
		}
	}
	return ""
}

// lookupOr returns the first non-blank alias value, or def when every
// alias is blank or absent.
func (f fieldSpec) lookupOr(row *csvfile.Row, def string) string {
	if v := f.lookup(row); v != "" {
		return v
	}
	return def
}

// MappedRow is one CSV row normalized into typed sale attributes with
// defaults applied.
type MappedRow struct {
	LineNumber      int
	CustomerName    string
	CustomerRegion  string
	CustomerType    string
	ProductName     string
	ProductCategory string
	UnitPrice       decimal.Decimal
	Quantity        int
	TotalRevenue    decimal.Decimal
	ReportDate      time.Time
}

// MapRow maps a parsed CSV row onto sale attributes.
//
// Missing columns fall back to defaults: unknown-entity names, unit price 0,
// quantity 1, revenue derived as price times quantity, date now. A value
// that is present but unparseable is an error; the caller decides whether
// to skip the row.
func MapRow(row *csvfile.Row) (*MappedRow, error) {
	m := &MappedRow{
		LineNumber:      row.LineNumber,
		CustomerName:    customerNameField.lookupOr(row, sales.DefaultCustomerName),
		CustomerRegion:  customerRegionField.lookupOr(row, sales.DefaultCustomerRegion),
		CustomerType:    customerTypeField.lookupOr(row, sales.DefaultCustomerType),
		ProductName:     productNameField.lookupOr(row, sales.DefaultProductName),
		ProductCategory: productCategoryField.lookupOr(row, sales.DefaultProductCategory),
		Quantity:        1,
	}

	if v := unitPriceField.lookup(row); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", unitPriceField.name, v, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("negative %s %q", unitPriceField.name, v)
		}
		m.UnitPrice = price
	}

	if v := quantityField.lookup(row); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", quantityField.name, v, err)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("non-positive %s %q", quantityField.name, v)
		}
		m.Quantity = qty
	}

	if v := totalRevenueField.lookup(row); v != "" {
		revenue, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", totalRevenueField.name, v, err)
		}
		m.TotalRevenue = revenue
	} else {
		m.TotalRevenue = m.UnitPrice.Mul(decimal.NewFromInt(int64(m.Quantity)))
	}

	if v := reportDateField.lookup(row); v != "" {
		date, err := ParseReportDate(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", reportDateField.name, err)
		}
		m.ReportDate = date
	} else {
		m.ReportDate = time.Now()
	}

	return m, nil
}
