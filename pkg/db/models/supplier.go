package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor products are ordered from. Suppliers are deactivated, never deleted.
type Supplier struct {
	ID            uuid.UUID `gorm:"column:id;type:varchar(36);primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	ContactPerson *string   `gorm:"column:contact_person"`
	Email         *string   `gorm:"column:email"`
	Phone         *string   `gorm:"column:phone"`
	Address       *string   `gorm:"column:address"`
	City          *string   `gorm:"column:city"`
	State         *string   `gorm:"column:state"`
	PostalCode    *string   `gorm:"column:postal_code"`
	Country       string    `gorm:"column:country;not null"`
	LeadTimeDays  int       `gorm:"column:lead_time_days;not null"`
	IsActive      bool      `gorm:"column:is_active;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Supplier) TableName() string { return "suppliers" }
