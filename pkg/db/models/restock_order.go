package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// RestockOrder is a purchase order placed with a single supplier.
type RestockOrder struct {
	ID               uuid.UUID                `gorm:"column:id;type:varchar(36);primaryKey"`
	OrderNumber      string                   `gorm:"column:order_number;not null"`
	SupplierID       uuid.UUID                `gorm:"column:supplier_id;type:varchar(36);not null"`
	Status           enums.RestockOrderStatus `gorm:"column:status;not null"`
	TotalCostCents   int64                    `gorm:"column:total_cost_cents;not null"`
	Notes            *string                  `gorm:"column:notes"`
	CreatedBy        *string                  `gorm:"column:created_by"`
	ExpectedDelivery *time.Time               `gorm:"column:expected_delivery"`
	SubmittedAt      *time.Time               `gorm:"column:submitted_at"`
	FulfilledAt      *time.Time               `gorm:"column:fulfilled_at"`
	CancelledAt      *time.Time               `gorm:"column:cancelled_at"`
	CancelReason     *string                  `gorm:"column:cancel_reason"`
	Items            []RestockOrderItem       `gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (RestockOrder) TableName() string { return "restock_orders" }

// RestockOrderItem is one line of a restock order.
type RestockOrderItem struct {
	ID               uuid.UUID `gorm:"column:id;type:varchar(36);primaryKey"`
	OrderID          uuid.UUID `gorm:"column:order_id;type:varchar(36);not null"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:varchar(36);not null"`
	QuantityOrdered  int       `gorm:"column:quantity_ordered;not null"`
	QuantityReceived int       `gorm:"column:quantity_received;not null"`
	UnitCostCents    int64     `gorm:"column:unit_cost_cents;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RestockOrderItem) TableName() string { return "restock_order_items" }

// LineCostCents is the ordered quantity at the snapshot unit cost.
func (i RestockOrderItem) LineCostCents() int64 {
	return int64(i.QuantityOrdered) * i.UnitCostCents
}
