package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// Product is a stocked item. Quantity only changes through the inventory ledger.
type Product struct {
	ID               uuid.UUID             `gorm:"column:id;type:varchar(36);primaryKey"`
	SKU              string                `gorm:"column:sku;not null"`
	Name             string                `gorm:"column:name;not null"`
	Description      *string               `gorm:"column:description"`
	Category         enums.ProductCategory `gorm:"column:category;not null"`
	Unit             string                `gorm:"column:unit;not null"`
	SupplierID       uuid.UUID             `gorm:"column:supplier_id;type:varchar(36);not null"`
	PriceCents       int64                 `gorm:"column:price_cents;not null"`
	CostCents        int64                 `gorm:"column:cost_cents;not null"`
	Quantity         int                   `gorm:"column:quantity;not null"`
	InitialQuantity  int                   `gorm:"column:initial_quantity;not null"`
	ReorderThreshold int                   `gorm:"column:reorder_threshold;not null"`
	MaxStockLevel    int                   `gorm:"column:max_stock_level;not null"`
	ReorderQuantity  int                   `gorm:"column:reorder_quantity;not null"`
	Barcode          *string               `gorm:"column:barcode"`
	Brand            *string               `gorm:"column:brand"`
	Location         *string               `gorm:"column:location"`
	IsPerishable     bool                  `gorm:"column:is_perishable;not null"`
	IsActive         bool                  `gorm:"column:is_active;not null"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// StockValueCents is quantity on hand at retail price.
func (p Product) StockValueCents() int64 {
	return int64(p.Quantity) * p.PriceCents
}

// StockCostCents is quantity on hand at unit cost.
func (p Product) StockCostCents() int64 {
	return int64(p.Quantity) * p.CostCents
}

// IsOverstocked reports whether a bounded product holds more than its max level.
func (p Product) IsOverstocked() bool {
	return p.MaxStockLevel > 0 && p.Quantity > p.MaxStockLevel
}
