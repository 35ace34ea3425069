package suppliers

import "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"

// CreateSupplierInput holds the fields accepted when registering a supplier.
type CreateSupplierInput struct {
	Name          string  `json:"name" yaml:"name" validate:"required,max=200"`
	ContactPerson *string `json:"contact_person" yaml:"contact_person" validate:"omitempty,max=200"`
	Email         *string `json:"email" yaml:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" yaml:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address" yaml:"address"`
	City          *string `json:"city" yaml:"city"`
	State         *string `json:"state" yaml:"state"`
	PostalCode    *string `json:"postal_code" yaml:"postal_code"`
	Country       string  `json:"country" yaml:"country" validate:"omitempty,max=64"`
	LeadTimeDays  *int    `json:"lead_time_days" yaml:"lead_time_days" validate:"omitempty,gte=0,lte=365"`
}

// UpdateSupplierInput is a patch; nil fields stay unchanged.
type UpdateSupplierInput struct {
	Name          *string `json:"name" mapstructure:"name" validate:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contact_person" mapstructure:"contact_person" validate:"omitempty,max=200"`
	Email         *string `json:"email" mapstructure:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" mapstructure:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address" mapstructure:"address"`
	City          *string `json:"city" mapstructure:"city"`
	State         *string `json:"state" mapstructure:"state"`
	PostalCode    *string `json:"postal_code" mapstructure:"postal_code"`
	Country       *string `json:"country" mapstructure:"country" validate:"omitempty,max=64"`
	LeadTimeDays  *int    `json:"lead_time_days" mapstructure:"lead_time_days" validate:"omitempty,gte=0,lte=365"`
}

// ListFilter narrows supplier listings. Match, when set, is applied after the query.
type ListFilter struct {
	IncludeInactive bool
	Search          string
	Match           func(models.Supplier) bool
}
