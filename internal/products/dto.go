package product

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// CreateProductInput holds the fields accepted when registering a product.
type CreateProductInput struct {
	SKU              string    `json:"sku" yaml:"sku" validate:"required,sku"`
	Name             string    `json:"name" yaml:"name" validate:"required,max=200"`
	Description      *string   `json:"description" yaml:"description"`
	Category         string    `json:"category" yaml:"category"`
	Unit             string    `json:"unit" yaml:"unit" validate:"omitempty,max=32"`
	SupplierID       uuid.UUID `json:"supplier_id" yaml:"-"`
	PriceCents       int64     `json:"price_cents" yaml:"-" validate:"gte=0"`
	CostCents        int64     `json:"cost_cents" yaml:"-" validate:"gte=0"`
	Quantity         int       `json:"quantity" yaml:"quantity" validate:"gte=0"`
	ReorderThreshold int       `json:"reorder_threshold" yaml:"reorder_threshold" validate:"gte=0"`
	MaxStockLevel    int       `json:"max_stock_level" yaml:"max_stock_level" validate:"gte=0"`
	ReorderQuantity  int       `json:"reorder_quantity" yaml:"reorder_quantity" validate:"gte=0"`
	Barcode          *string   `json:"barcode" yaml:"barcode" validate:"omitempty,max=64"`
	Brand            *string   `json:"brand" yaml:"brand" validate:"omitempty,max=100"`
	Location         *string   `json:"location" yaml:"location" validate:"omitempty,max=100"`
	IsPerishable     bool      `json:"is_perishable" yaml:"is_perishable"`
}

// UpdateProductInput is a patch; nil fields stay unchanged. Quantity is not patchable.
type UpdateProductInput struct {
	SKU              *string    `json:"sku" mapstructure:"sku" validate:"omitempty,sku"`
	Name             *string    `json:"name" mapstructure:"name" validate:"omitempty,min=1,max=200"`
	Description      *string    `json:"description" mapstructure:"description"`
	Category         *string    `json:"category" mapstructure:"category"`
	Unit             *string    `json:"unit" mapstructure:"unit" validate:"omitempty,max=32"`
	SupplierID       *uuid.UUID `json:"supplier_id" mapstructure:"-"`
	PriceCents       *int64     `json:"price_cents" mapstructure:"price_cents" validate:"omitempty,gte=0"`
	CostCents        *int64     `json:"cost_cents" mapstructure:"cost_cents" validate:"omitempty,gte=0"`
	ReorderThreshold *int       `json:"reorder_threshold" mapstructure:"reorder_threshold" validate:"omitempty,gte=0"`
	MaxStockLevel    *int       `json:"max_stock_level" mapstructure:"max_stock_level" validate:"omitempty,gte=0"`
	ReorderQuantity  *int       `json:"reorder_quantity" mapstructure:"reorder_quantity" validate:"omitempty,gte=0"`
	Barcode          *string    `json:"barcode" mapstructure:"barcode" validate:"omitempty,max=64"`
	Brand            *string    `json:"brand" mapstructure:"brand" validate:"omitempty,max=100"`
	Location         *string    `json:"location" mapstructure:"location" validate:"omitempty,max=100"`
	IsPerishable     *bool      `json:"is_perishable" mapstructure:"is_perishable"`
}

// ListFilter narrows product listings. Match, when set, is an arbitrary
// predicate applied after the typed filters.
type ListFilter struct {
	IncludeInactive bool
	SupplierID      *uuid.UUID
	Category        *enums.ProductCategory
	LowStockOnly    bool
	Search          string
	Match           func(models.Product) bool
}

const defaultUnit = "each"

// NormalizeSKU trims and upper-cases a SKU.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
