package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

var hundred = decimal.NewFromInt(100)

func reportCommands(rt *runtime) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "reports:summary",
			Short: "Inventory dashboard",
			Args:  cobra.NoArgs,
			RunE:  rt.reportSummary,
		},
		{
			Use:   "reports:value",
			Short: "Total value of active stock at retail price",
			Args:  cobra.NoArgs,
			RunE:  rt.reportValue,
		},
		{
			Use:   "reports:suppliers",
			Short: "Products, units and stock value per supplier",
			Args:  cobra.NoArgs,
			RunE:  rt.reportSuppliers,
		},
		{
			Use:   "reports:categories",
			Short: "Products, units and stock value per category",
			Args:  cobra.NoArgs,
			RunE:  rt.reportCategories,
		},
		{
			Use:   "reports:overstock",
			Short: "Products above their max stock level",
			Args:  cobra.NoArgs,
			RunE:  rt.reportOverstock,
		},
		{
			Use:   "reports:orders",
			Short: "Restock orders per status",
			Args:  cobra.NoArgs,
			RunE:  rt.reportOrders,
		},
		{
			Use:   "reports:performance",
			Short: "Supplier lead time and fill rate",
			Args:  cobra.NoArgs,
			RunE:  rt.reportPerformance,
		},
	}
}

func (rt *runtime) reportSummary(cmd *cobra.Command, _ []string) error {
	s, err := rt.app.Reports.Summary(cmd.Context())
	if err != nil {
		return err
	}
	renderFields(cmd.OutOrStdout(), "Inventory summary", []field{
		{"Active products", strconv.Itoa(s.ActiveProducts)},
		{"Units on hand", strconv.Itoa(s.Units)},
		{"Low stock", strconv.Itoa(s.LowStock)},
		{"Out of stock", strconv.Itoa(s.OutOfStock)},
		{"Overstocked", strconv.Itoa(s.Overstocked)},
		{"Open orders", fmt.Sprintf("%d (%s)", s.OpenOrders, money.Format(s.OpenOrderCents))},
		{"Retail value", money.Format(s.Valuation.RetailCents)},
		{"Cost value", money.Format(s.Valuation.CostCents)},
		{"Potential profit", money.Format(s.Valuation.ProfitCents)},
		{"Margin", s.Valuation.Margin.Mul(hundred).StringFixed(1) + "%"},
	})
	return nil
}

func (rt *runtime) reportValue(cmd *cobra.Command, _ []string) error {
	amount, err := rt.app.Reports.TotalInventoryValue(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render("Inventory value")+amount.String())
	return nil
}

func (rt *runtime) reportSuppliers(cmd *cobra.Command, _ []string) error {
	breakdown, err := rt.app.Reports.SupplierBreakdown(cmd.Context())
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(breakdown))
	for id := range breakdown {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return breakdown[ids[i]].Name < breakdown[ids[j]].Name })
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		t := breakdown[id]
		rows = append(rows, []string{t.Name, strconv.Itoa(t.ProductCount), strconv.Itoa(t.Units), money.Format(t.ValueCents)})
	}
	renderTable(cmd.OutOrStdout(), []string{"Supplier", "Products", "Units", "Value"}, rows)
	return nil
}

func (rt *runtime) reportCategories(cmd *cobra.Command, _ []string) error {
	totals, err := rt.app.Reports.CategorySummary(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{string(t.Category), strconv.Itoa(t.ProductCount), strconv.Itoa(t.Units), money.Format(t.ValueCents)})
	}
	renderTable(cmd.OutOrStdout(), []string{"Category", "Products", "Units", "Value"}, rows)
	return nil
}

func (rt *runtime) reportOverstock(cmd *cobra.Command, _ []string) error {
	products, err := rt.app.Reports.Overstocked(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.SKU,
			p.Name,
			strconv.Itoa(p.Quantity),
			strconv.Itoa(p.MaxStockLevel),
			warnStyle.Render(fmt.Sprintf("+%d", p.Quantity-p.MaxStockLevel)),
		})
	}
	renderTable(cmd.OutOrStdout(), []string{"SKU", "Name", "Qty", "Max", "Excess"}, rows)
	return nil
}

func (rt *runtime) reportOrders(cmd *cobra.Command, _ []string) error {
	totals, err := rt.app.Reports.OrderSummary(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{levelStyle(string(t.Status)), strconv.Itoa(t.Count), money.Format(t.TotalCostCents)})
	}
	renderTable(cmd.OutOrStdout(), []string{"Status", "Orders", "Total"}, rows)
	return nil
}

func (rt *runtime) reportPerformance(cmd *cobra.Command, _ []string) error {
	perf, err := rt.app.Reports.SupplierPerformance(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(p.Orders),
			strconv.Itoa(p.Fulfilled),
			strconv.Itoa(p.Cancelled),
			fmt.Sprintf("%d/%d", p.UnitsReceived, p.UnitsOrdered),
			p.AvgLeadDays.StringFixed(1),
			p.FillRate.Mul(hundred).StringFixed(1) + "%",
		})
	}
	renderTable(cmd.OutOrStdout(), []string{"Supplier", "Orders", "Fulfilled", "Cancelled", "Units", "Avg lead (d)", "Fill rate"}, rows)
	return nil
}
