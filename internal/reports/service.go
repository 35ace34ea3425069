// Package reports aggregates inventory, supplier and order figures. Every
// report is recomputed from the store on each call.
package reports

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/alerts"
	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/restock"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

// AlertSource yields the currently alerting products.
type AlertSource interface {
	All(ctx context.Context) ([]alerts.Alert, error)
}

// Service exposes the read-only reports.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	TotalInventoryValue(ctx context.Context) (Amount, error)
	LowStockCount(ctx context.Context) (int, error)
	SupplierBreakdown(ctx context.Context) (map[uuid.UUID]SupplierTotals, error)
	StockValuation(ctx context.Context) (*Valuation, error)
	CategorySummary(ctx context.Context) ([]CategoryTotals, error)
	Overstocked(ctx context.Context) ([]models.Product, error)
	OrderSummary(ctx context.Context) ([]OrderStatusTotals, error)
	SupplierPerformance(ctx context.Context) ([]SupplierPerformance, error)
}

type service struct {
	products  *product.Repository
	suppliers *suppliers.Repository
	orders    restock.Repository
	alerts    AlertSource
}

// NewService wires the reports over the shared database.
func NewService(dbClient *db.Client, alertSource AlertSource) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if alertSource == nil {
		return nil, fmt.Errorf("alert source required")
	}
	return &service{
		products:  product.NewRepository(dbClient.DB()),
		suppliers: suppliers.NewRepository(dbClient.DB()),
		orders:    restock.NewRepository(dbClient.DB()),
		alerts:    alertSource,
	}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.OrderSummary(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		ActiveProducts: len(products),
		LowStock:       lowStock,
		Valuation:      valuation(products),
	}
	for _, p := range products {
		summary.Units += p.Quantity
		if p.Quantity == 0 {
			summary.OutOfStock++
		}
		if p.IsOverstocked() {
			summary.Overstocked++
		}
	}
	for _, row := range orders {
		if row.Status.IsOpen() {
			summary.OpenOrders += row.Count
			summary.OpenOrderCents += row.TotalCostCents
		}
	}
	return summary, nil
}

// TotalInventoryValue sums quantity times unit price over active products.
func (s *service) TotalInventoryValue(ctx context.Context) (Amount, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return Amount{}, err
	}
	var cents int64
	for _, p := range products {
		cents += p.StockValueCents()
	}
	return NewAmount(cents), nil
}

func (s *service) LowStockCount(ctx context.Context) (int, error) {
	found, err := s.alerts.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(found), nil
}

// SupplierBreakdown maps each supplier with active products to their totals.
func (s *service) SupplierBreakdown(ctx context.Context) (map[uuid.UUID]SupplierTotals, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.supplierNames(ctx)
	if err != nil {
		return nil, err
	}

	out := map[uuid.UUID]SupplierTotals{}
	for _, p := range products {
		row := out[p.SupplierID]
		row.SupplierID = p.SupplierID
		row.Name = names[p.SupplierID]
		row.ProductCount++
		row.Units += p.Quantity
		row.ValueCents += p.StockValueCents()
		out[p.SupplierID] = row
	}
	return out, nil
}

func (s *service) StockValuation(ctx context.Context) (*Valuation, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	v := valuation(products)
	return &v, nil
}

func (s *service) CategorySummary(ctx context.Context) ([]CategoryTotals, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := map[enums.ProductCategory]*CategoryTotals{}
	for _, p := range products {
		row, ok := byCategory[p.Category]
		if !ok {
			row = &CategoryTotals{Category: p.Category}
			byCategory[p.Category] = row
		}
		row.ProductCount++
		row.Units += p.Quantity
		row.ValueCents += p.StockValueCents()
	}

	out := make([]CategoryTotals, 0, len(byCategory))
	for _, category := range enums.ProductCategories() {
		if row, ok := byCategory[category]; ok {
			out = append(out, *row)
		}
	}
	return out, nil
}

// Overstocked lists active products holding more than a nonzero max stock
// level, largest excess first.
func (s *service) Overstocked(ctx context.Context) ([]models.Product, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Product
	for _, p := range products {
		if p.IsOverstocked() {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Product) int {
		return (b.Quantity - b.MaxStockLevel) - (a.Quantity - a.MaxStockLevel)
	})
	return out, nil
}

// OrderSummary returns one row per order status, including empty ones.
func (s *service) OrderSummary(ctx context.Context) ([]OrderStatusTotals, error) {
	orders, err := s.allOrders(ctx)
	if err != nil {
		return nil, err
	}
	byStatus := map[enums.RestockOrderStatus]*OrderStatusTotals{}
	out := make([]OrderStatusTotals, 0, len(enums.RestockOrderStatuses()))
	for _, status := range enums.RestockOrderStatuses() {
		byStatus[status] = &OrderStatusTotals{Status: status}
	}
	for _, o := range orders {
		row, ok := byStatus[o.Status]
		if !ok {
			continue
		}
		row.Count++
		row.TotalCostCents += o.TotalCostCents
	}
	for _, status := range enums.RestockOrderStatuses() {
		out = append(out, *byStatus[status])
	}
	return out, nil
}

// SupplierPerformance summarizes order history per supplier. Lead time runs
// from order creation to fulfilment; fill rate compares received with
// ordered units over fulfilled orders.
func (s *service) SupplierPerformance(ctx context.Context) ([]SupplierPerformance, error) {
	orders, err := s.allOrders(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.supplierNames(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		row       SupplierPerformance
		leadHours float64
	}
	bySupplier := map[uuid.UUID]*acc{}
	for _, o := range orders {
		a, ok := bySupplier[o.SupplierID]
		if !ok {
			a = &acc{row: SupplierPerformance{SupplierID: o.SupplierID, Name: names[o.SupplierID]}}
			bySupplier[o.SupplierID] = a
		}
		a.row.Orders++
		switch o.Status {
		case enums.RestockOrderStatusCancelled:
			a.row.Cancelled++
		case enums.RestockOrderStatusFulfilled:
			a.row.Fulfilled++
			if o.FulfilledAt != nil {
				a.leadHours += o.FulfilledAt.Sub(o.CreatedAt).Hours()
			}
			for _, item := range o.Items {
				a.row.UnitsOrdered += item.QuantityOrdered
				a.row.UnitsReceived += item.QuantityReceived
			}
		}
	}

	out := make([]SupplierPerformance, 0, len(bySupplier))
	for _, a := range bySupplier {
		if a.row.Fulfilled > 0 {
			a.row.AvgLeadDays = decimal.NewFromFloat(a.leadHours / 24 / float64(a.row.Fulfilled)).Round(1)
		}
		a.row.FillRate = money.Ratio(int64(a.row.UnitsReceived), int64(a.row.UnitsOrdered))
		out = append(out, a.row)
	}
	slices.SortFunc(out, func(a, b SupplierPerformance) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

func (s *service) activeProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx, product.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return products, nil
}

func (s *service) supplierNames(ctx context.Context) (map[uuid.UUID]string, error) {
	all, err := s.suppliers.List(ctx, suppliers.ListFilter{IncludeInactive: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	names := make(map[uuid.UUID]string, len(all))
	for _, sup := range all {
		names[sup.ID] = sup.Name
	}
	return names, nil
}

func (s *service) allOrders(ctx context.Context) ([]models.RestockOrder, error) {
	orders, err := s.orders.ListOrders(ctx, restock.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list restock orders")
	}
	return orders, nil
}

func valuation(products []models.Product) Valuation {
	var v Valuation
	for _, p := range products {
		v.CostCents += p.StockCostCents()
		v.RetailCents += p.StockValueCents()
	}
	v.ProfitCents = v.RetailCents - v.CostCents
	v.Margin = money.Ratio(v.ProfitCents, v.RetailCents)
	return v
}
