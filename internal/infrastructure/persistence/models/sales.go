package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_name"`
	Region string `gorm:"type:varchar(100);not null"`
	Type   string `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *sales.Customer {
	return &sales.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Region:     m.Region,
		Type:       m.Type,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *sales.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Region = c.Region
	m.Type = c.Type
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *sales.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name     string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_name"`
	Category string          `gorm:"type:varchar(100);not null"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *sales.Product {
	return &sales.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Category:   m.Category,
		Price:      m.Price,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *sales.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Category = p.Category
	m.Price = p.Price
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *sales.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// SaleModel is the persistence model for the Sale domain entity.
type SaleModel struct {
	BaseModel
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     int             `gorm:"not null;default:1"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReportDate   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		BaseEntity:   m.BaseModel.ToDomain(),
		CustomerID:   m.CustomerID,
		ProductID:    m.ProductID,
		Quantity:     m.Quantity,
		TotalRevenue: m.TotalRevenue,
		ReportDate:   m.ReportDate,
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CustomerID = s.CustomerID
	m.ProductID = s.ProductID
	m.Quantity = s.Quantity
	m.TotalRevenue = s.TotalRevenue
	m.ReportDate = s.ReportDate
}

// SaleModelFromDomain creates a new persistence model from a domain Sale entity.
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}
