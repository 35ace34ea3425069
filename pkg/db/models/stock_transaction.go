package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// StockTransaction records one immutable quantity movement for a product.
type StockTransaction struct {
	ID               uuid.UUID          `gorm:"column:id;type:varchar(36);primaryKey"`
	ProductID        uuid.UUID          `gorm:"column:product_id;type:varchar(36);not null"`
	Kind             enums.MovementKind `gorm:"column:kind;not null"`
	Delta            int                `gorm:"column:delta;not null"`
	PreviousQuantity int                `gorm:"column:previous_quantity;not null"`
	ResultingQty     int                `gorm:"column:resulting_quantity;not null"`
	UnitPriceCents   int64              `gorm:"column:unit_price_cents;not null"`
	Reference        *string            `gorm:"column:reference"`
	Reason           *string            `gorm:"column:reason"`
	PerformedBy      *string            `gorm:"column:performed_by"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (StockTransaction) TableName() string { return "stock_transactions" }

// ValueCents is the absolute value of the movement at the recorded unit price.
func (t StockTransaction) ValueCents() int64 {
	delta := int64(t.Delta)
	if delta < 0 {
		delta = -delta
	}
	return delta * t.UnitPriceCents
}
