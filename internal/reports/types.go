package reports

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

// Amount carries a money total both as exact cents and as a decimal.
type Amount struct {
	Cents int64
	Value decimal.Decimal
}

// NewAmount builds an Amount from cents.
func NewAmount(cents int64) Amount {
	return Amount{Cents: cents, Value: money.FromCents(cents)}
}

func (a Amount) String() string {
	return money.Format(a.Cents)
}

// Summary is the dashboard shown by the reports summary command.
type Summary struct {
	ActiveProducts int
	Units          int
	OutOfStock     int
	LowStock       int
	Overstocked    int
	OpenOrders     int
	OpenOrderCents int64
	Valuation      Valuation
}

// SupplierTotals aggregates a supplier's active products.
type SupplierTotals struct {
	SupplierID   uuid.UUID
	Name         string
	ProductCount int
	Units        int
	ValueCents   int64
}

// Valuation values stock on hand at cost and at retail.
type Valuation struct {
	CostCents   int64
	RetailCents int64
	ProfitCents int64
	Margin      decimal.Decimal
}

type CategoryTotals struct {
	Category     enums.ProductCategory
	ProductCount int
	Units        int
	ValueCents   int64
}

type OrderStatusTotals struct {
	Status         enums.RestockOrderStatus
	Count          int
	TotalCostCents int64
}

// SupplierPerformance describes how a supplier's orders went.
type SupplierPerformance struct {
	SupplierID    uuid.UUID
	Name          string
	Orders        int
	Fulfilled     int
	Cancelled     int
	UnitsOrdered  int
	UnitsReceived int
	AvgLeadDays   decimal.Decimal
	FillRate      decimal.Decimal
}
