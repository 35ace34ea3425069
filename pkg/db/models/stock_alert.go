package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

// StockAlert persists a raised low-stock alert until the product recovers or an operator resolves it.
// Quantity, Threshold and Message are a snapshot taken when the alert was raised or last changed
// level; movements that keep the same level do not rewrite them. Read the product for live stock.
type StockAlert struct {
	ID             uuid.UUID         `gorm:"column:id;type:varchar(36);primaryKey"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:varchar(36);not null"`
	Level          enums.AlertLevel  `gorm:"column:level;not null"`
	Status         enums.AlertStatus `gorm:"column:status;not null"`
	Quantity       int               `gorm:"column:quantity;not null"`
	Threshold      int               `gorm:"column:threshold;not null"`
	Message        string            `gorm:"column:message;not null"`
	LastNotifiedAt *time.Time        `gorm:"column:last_notified_at"`
	AcknowledgedAt *time.Time        `gorm:"column:acknowledged_at"`
	ResolvedAt     *time.Time        `gorm:"column:resolved_at"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockAlert) TableName() string { return "stock_alerts" }
