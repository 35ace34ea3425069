package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

func alertCommands(rt *runtime) []*cobra.Command {
	return []*cobra.Command{
		alertListCommand(rt),
		alertScanCommand(rt),
		alertTransitionCommand(rt, "alerts:ack", "Acknowledge an active alert", rt.acknowledgeAlert),
		alertTransitionCommand(rt, "alerts:resolve", "Resolve an open alert", rt.resolveAlert),
		alertSuggestCommand(rt),
	}
}

func alertListCommand(rt *runtime) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "alerts:list",
		Short: "List stored stock alerts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter *enums.AlertStatus
			if status != "" {
				s, err := enums.ParseAlertStatus(status)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid alert status")
				}
				filter = &s
			}
			rows, err := rt.app.Tracker.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := make([][]string, 0, len(rows))
			for _, a := range rows {
				created := a.CreatedAt
				out = append(out, []string{
					a.ID.String(),
					levelStyle(string(a.Level)),
					string(a.Status),
					a.Message,
					formatTime(&created),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "Level", "Status", "Message", "Raised"}, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "active, acknowledged or resolved")
	return cmd
}

func alertScanCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts:scan",
		Short: "Check every product against its threshold and sync stored alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			result, syncErr := rt.app.Tracker.Sync(ctx)
			current, err := rt.app.Evaluator.All(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(current))
			for _, a := range current {
				rows = append(rows, []string{
					a.Product.SKU,
					a.Product.Name,
					levelStyle(string(a.Level)),
					strconv.Itoa(a.Product.Quantity),
					strconv.Itoa(a.Product.ReorderThreshold),
				})
			}
			out := cmd.OutOrStdout()
			renderTable(out, []string{"SKU", "Name", "Level", "Qty", "Threshold"}, rows)
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf(
				"%d alerting, %d raised, %d updated, %d resolved",
				result.Alerting, result.Raised, result.Updated, result.Resolved,
			)))
			return syncErr
		},
	}
}

func alertTransitionCommand(rt *runtime, use, short string, apply func(cmd *cobra.Command, id uuid.UUID) (*models.StockAlert, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <alert-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "alert id must be a uuid").
					WithDetails(map[string]string{"id": args[0]})
			}
			alert, err := apply(cmd, id)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Alert %s is now %s", alert.ID, alert.Status)
			return nil
		},
	}
}

func (rt *runtime) acknowledgeAlert(cmd *cobra.Command, id uuid.UUID) (*models.StockAlert, error) {
	return rt.app.Tracker.Acknowledge(cmd.Context(), id)
}

func (rt *runtime) resolveAlert(cmd *cobra.Command, id uuid.UUID) (*models.StockAlert, error) {
	return rt.app.Tracker.Resolve(cmd.Context(), id)
}

func alertSuggestCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts:suggest",
		Short: "Suggest restock quantities for alerting products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			suggestions, err := rt.app.Evaluator.Suggestions(ctx)
			if err != nil {
				return err
			}
			names := map[uuid.UUID]string{}
			rows := make([][]string, 0, len(suggestions))
			var total int64
			for _, s := range suggestions {
				rows = append(rows, []string{
					s.Product.SKU,
					s.Product.Name,
					rt.supplierName(cmd, names, s.SupplierID),
					levelStyle(string(s.Urgency)),
					strconv.Itoa(s.Shortage),
					strconv.Itoa(s.SuggestedQuantity),
					money.Format(s.EstimatedCostCents),
				})
				total += s.EstimatedCostCents
			}
			out := cmd.OutOrStdout()
			renderTable(out, []string{"SKU", "Name", "Supplier", "Urgency", "Short", "Order", "Est. cost"}, rows)
			if len(suggestions) > 0 {
				fmt.Fprintln(out, labelStyle.Render("Estimated total")+money.Format(total))
			}
			return nil
		},
	}
}

// supplierName caches lookups across a rendered table.
func (rt *runtime) supplierName(cmd *cobra.Command, cache map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := cache[id]; ok {
		return name
	}
	name := id.String()
	if s, err := rt.app.Suppliers.Get(cmd.Context(), id); err == nil {
		name = s.Name
	}
	cache[id] = name
	return name
}
