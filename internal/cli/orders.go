package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/restock"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

func orderCommands(rt *runtime) []*cobra.Command {
	return []*cobra.Command{
		orderCreateCommand(rt),
		orderSubmitCommand(rt),
		orderFulfillCommand(rt),
		orderCancelCommand(rt),
		orderShowCommand(rt),
		orderListCommand(rt),
		orderAutoCommand(rt),
	}
}

func orderCreateCommand(rt *runtime) *cobra.Command {
	var (
		supplier string
		items    []string
		notes    string
	)
	cmd := &cobra.Command{
		Use:     "orders:create",
		Short:   "Draft a restock order for one supplier",
		Example: "  grocer orders:create --supplier \"Fresh Farms Produce\" --item PRD-001=50 --item PRD-002=30",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := rt.app.Suppliers.Resolve(ctx, supplier)
			if err != nil {
				return err
			}
			quantities, err := rt.productQuantities(ctx, items)
			if err != nil {
				return err
			}
			order, err := rt.app.Restock.CreateDraft(ctx, restock.CreateDraftInput{
				SupplierID: s.ID,
				Items:      quantities,
				Notes:      notes,
				CreatedBy:  rt.performer(),
			})
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Drafted %s for %s: %d line(s), %s",
				order.OrderNumber, s.Name, len(order.Items), money.Format(order.TotalCostCents))
			return nil
		},
	}
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier name or id (required)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "SKU=quantity, repeatable (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "order notes")
	_ = cmd.MarkFlagRequired("supplier")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func orderSubmitCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "orders:submit <order>",
		Short: "Submit a draft order to its supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := rt.app.Restock.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			order, err = rt.app.Restock.Submit(cmd.Context(), order.ID)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Submitted %s, expected %s", order.OrderNumber, formatTime(order.ExpectedDelivery))
			return nil
		},
	}
}

func orderFulfillCommand(rt *runtime) *cobra.Command {
	var received []string
	cmd := &cobra.Command{
		Use:   "orders:fulfill <order>",
		Short: "Receive a submitted order into stock",
		Long:  "Receive a submitted order. Lines not named in --received are received in full; use SKU=0 for a line that did not arrive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			order, err := rt.app.Restock.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			var quantities map[uuid.UUID]int
			if len(received) > 0 {
				if quantities, err = rt.productQuantities(ctx, received); err != nil {
					return err
				}
			}
			order, err = rt.app.Restock.Fulfill(ctx, order.ID, quantities)
			if err != nil {
				return err
			}
			units := 0
			for _, item := range order.Items {
				units += item.QuantityReceived
			}
			success(cmd.OutOrStdout(), "Fulfilled %s: %d unit(s) received", order.OrderNumber, units)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&received, "received", nil, "SKU=quantity actually delivered, repeatable")
	return cmd
}

func orderCancelCommand(rt *runtime) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "orders:cancel <order>",
		Short: "Cancel a draft or submitted order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := rt.app.Restock.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			order, err = rt.app.Restock.Cancel(cmd.Context(), order.ID, reason)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Cancelled %s", order.OrderNumber)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the order was cancelled")
	return cmd
}

func orderShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "orders:show <order>",
		Short: "Show an order with its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			order, err := rt.app.Restock.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			names := map[uuid.UUID]string{}
			out := cmd.OutOrStdout()
			renderFields(out, order.OrderNumber, []field{
				{"ID", order.ID.String()},
				{"Supplier", rt.supplierName(cmd, names, order.SupplierID)},
				{"Status", levelStyle(string(order.Status))},
				{"Total", money.Format(order.TotalCostCents)},
				{"Created by", deref(order.CreatedBy)},
				{"Created", formatTime(&order.CreatedAt)},
				{"Submitted", formatTime(order.SubmittedAt)},
				{"Expected", formatTime(order.ExpectedDelivery)},
				{"Fulfilled", formatTime(order.FulfilledAt)},
				{"Cancelled", formatTime(order.CancelledAt)},
				{"Cancel reason", deref(order.CancelReason)},
				{"Notes", deref(order.Notes)},
			})
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(order.Items))
			for _, item := range order.Items {
				sku := item.ProductID.String()
				if p, err := rt.app.Products.Get(ctx, item.ProductID); err == nil {
					sku = p.SKU
				}
				rows = append(rows, []string{
					sku,
					strconv.Itoa(item.QuantityOrdered),
					strconv.Itoa(item.QuantityReceived),
					money.Format(item.UnitCostCents),
					money.Format(item.LineCostCents()),
				})
			}
			renderTable(out, []string{"SKU", "Ordered", "Received", "Unit cost", "Line total"}, rows)
			return nil
		},
	}
}

func orderListCommand(rt *runtime) *cobra.Command {
	var (
		filter   restock.ListFilter
		status   string
		supplier string
	)
	cmd := &cobra.Command{
		Use:   "orders:list",
		Short: "List restock orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if status != "" {
				s, err := enums.ParseRestockOrderStatus(status)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
				}
				filter.Status = &s
			}
			if supplier != "" {
				s, err := rt.app.Suppliers.Resolve(ctx, supplier)
				if err != nil {
					return err
				}
				filter.SupplierID = &s.ID
			}
			orders, err := rt.app.Restock.List(ctx, filter)
			if err != nil {
				return err
			}
			renderOrders(cmd, rt, orders)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "draft, submitted, fulfilled or cancelled")
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier name or id")
	return cmd
}

func orderAutoCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "orders:auto",
		Short: "Draft one order per supplier from current restock suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := rt.app.Restock.AutoDraft(cmd.Context())
			if result == nil {
				return err
			}
			renderOrders(cmd, rt, result.Orders)
			if len(result.Skipped) > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, mutedStyle.Render("Skipped:"))
				ids := make([]uuid.UUID, 0, len(result.Skipped))
				for id := range result.Skipped {
					ids = append(ids, id)
				}
				sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
				for _, id := range ids {
					label := id.String()
					if p, err := rt.app.Products.Get(cmd.Context(), id); err == nil {
						label = p.SKU
					}
					fmt.Fprintf(out, "  %s: %s\n", label, result.Skipped[id])
				}
			}
			return err
		},
	}
}

func renderOrders(cmd *cobra.Command, rt *runtime, orders []models.RestockOrder) {
	names := map[uuid.UUID]string{}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderNumber,
			rt.supplierName(cmd, names, o.SupplierID),
			levelStyle(string(o.Status)),
			strconv.Itoa(len(o.Items)),
			money.Format(o.TotalCostCents),
			formatTime(&o.CreatedAt),
			formatTime(o.ExpectedDelivery),
		})
	}
	renderTable(cmd.OutOrStdout(), []string{"Order", "Supplier", "Status", "Lines", "Total", "Created", "Expected"}, rows)
}

// productQuantities turns SKU=qty pairs into a product id keyed map.
func (rt *runtime) productQuantities(ctx context.Context, pairs []string) (map[uuid.UUID]int, error) {
	bySKU, err := parseQuantities(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(bySKU))
	for ref, qty := range bySKU {
		p, err := rt.app.Products.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		out[p.ID] += qty
	}
	return out, nil
}
