package models

import (
	"github.com/shopspring/decimal"
)

// DefaultStock is the stock assigned to a product created without one.
const DefaultStock = 10

// Product represents a product in the catalog.
// It belongs to at most one category and carries any number of tags.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	ProductName string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;check:chk_products_price,price >= 0"`
	Stock       int             `gorm:"not null;check:chk_products_stock,stock >= 0"`
	CategoryID  *uint           `gorm:"index"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	Tags        []Tag           `gorm:"many2many:product_tags"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductChanges holds the fields of a product update. Nil fields are left
// untouched; a nil TagIDs means the product's tags are not changed at all.
// ClearCategory sets category_id to NULL and wins over CategoryID.
type ProductChanges struct {
	ProductName   *string
	Price         *decimal.Decimal
	Stock         *int
	CategoryID    *uint
	ClearCategory bool
	TagIDs        *[]uint
}

// Columns returns the product column assignments for the fields that are set.
// Tags are not columns and are never part of the result.
func (c ProductChanges) Columns() map[string]any {
	cols := map[string]any{}
	if c.ProductName != nil {
		cols["product_name"] = *c.ProductName
	}
	if c.Price != nil {
		cols["price"] = *c.Price
	}
	if c.Stock != nil {
		cols["stock"] = *c.Stock
	}
	switch {
	case c.ClearCategory:
		cols["category_id"] = nil
	case c.CategoryID != nil:
		cols["category_id"] = *c.CategoryID
	}
	return cols
}
