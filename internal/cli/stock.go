package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

type movementFunc func(rt *runtime, cmd *cobra.Command, productID uuid.UUID, quantity int, opts ledger.MovementOptions) (*models.StockTransaction, error)

func stockCommands(rt *runtime) []*cobra.Command {
	return []*cobra.Command{
		stockMovementCommand(rt, "stock:sell", "Record a sale", func(rt *runtime, cmd *cobra.Command, id uuid.UUID, qty int, opts ledger.MovementOptions) (*models.StockTransaction, error) {
			return rt.app.Ledger.Sell(cmd.Context(), id, qty, opts)
		}),
		stockMovementCommand(rt, "stock:receive", "Record received stock", func(rt *runtime, cmd *cobra.Command, id uuid.UUID, qty int, opts ledger.MovementOptions) (*models.StockTransaction, error) {
			return rt.app.Ledger.Receive(cmd.Context(), id, qty, opts)
		}),
		stockAdjustCommand(rt),
		stockHistoryCommand(rt),
		stockAuditCommand(rt),
	}
}

func stockMovementCommand(rt *runtime, use, short string, apply movementFunc) *cobra.Command {
	var opts ledger.MovementOptions
	cmd := &cobra.Command{
		Use:   use + " <sku|id> <quantity>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.app.Products.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a whole number").
					WithDetails(map[string]string{"quantity": args[1]})
			}
			opts.PerformedBy = rt.performer()
			txn, err := apply(rt, cmd, p.ID, qty, opts)
			if err != nil {
				return err
			}
			printMovement(cmd, p, txn)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Reference, "ref", "", "external reference, e.g. a receipt number")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "free-form note")
	return cmd
}

func stockAdjustCommand(rt *runtime) *cobra.Command {
	var (
		opts  ledger.MovementOptions
		delta int
	)
	cmd := &cobra.Command{
		Use:     "stock:adjust <sku|id>",
		Short:   "Correct the quantity on hand by a signed delta",
		Example: "  grocer stock:adjust PRD-001 --delta=-3 --reason \"spoiled\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.app.Products.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts.PerformedBy = rt.performer()
			txn, err := rt.app.Ledger.Adjust(cmd.Context(), p.ID, delta, opts)
			if err != nil {
				return err
			}
			printMovement(cmd, p, txn)
			return nil
		},
	}
	cmd.Flags().IntVar(&delta, "delta", 0, "signed quantity change (required, non-zero)")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "why the count changed (required)")
	cmd.Flags().StringVar(&opts.Reference, "ref", "", "external reference")
	_ = cmd.MarkFlagRequired("delta")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func stockHistoryCommand(rt *runtime) *cobra.Command {
	var (
		filter     ledger.HistoryFilter
		productRef string
		kind       string
		since      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "stock:history",
		Short: "Show stock movements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			skus := map[uuid.UUID]string{}
			if productRef != "" {
				p, err := rt.app.Products.Resolve(ctx, productRef)
				if err != nil {
					return err
				}
				filter.ProductID = &p.ID
				skus[p.ID] = p.SKU
			}
			if kind != "" {
				k, err := enums.ParseMovementKind(kind)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement kind")
				}
				filter.Kind = &k
			}
			if since > 0 {
				from := time.Now().Add(-since)
				filter.Since = &from
			}
			txns, err := rt.app.Ledger.History(ctx, filter)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(txns))
			for _, t := range txns {
				sku, ok := skus[t.ProductID]
				if !ok {
					sku = t.ProductID.String()
					if p, err := rt.app.Products.Get(ctx, t.ProductID); err == nil {
						sku = p.SKU
					}
					skus[t.ProductID] = sku
				}
				created := t.CreatedAt
				rows = append(rows, []string{
					formatTime(&created),
					sku,
					string(t.Kind),
					fmt.Sprintf("%+d", t.Delta),
					fmt.Sprintf("%d → %d", t.PreviousQuantity, t.ResultingQty),
					money.Format(t.ValueCents()),
					deref(t.Reference),
					deref(t.Reason),
					deref(t.PerformedBy),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"When", "SKU", "Kind", "Delta", "Qty", "Value", "Ref", "Reason", "By"}, rows)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&productRef, "product", "", "product SKU or id")
	flags.StringVar(&kind, "kind", "", "movement kind (sale, receipt, adjustment)")
	flags.DurationVar(&since, "since", 0, "only movements newer than this, e.g. 24h")
	flags.IntVar(&filter.Limit, "limit", 50, "maximum rows (0 = all)")
	return cmd
}

func stockAuditCommand(rt *runtime) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "stock:audit [sku|id]",
		Short: "Check that quantities match their movement history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var targets []models.Product
			switch {
			case len(args) == 1:
				p, err := rt.app.Products.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				targets = append(targets, *p)
			case all:
				list, err := rt.app.Products.List(ctx, product.ListFilter{IncludeInactive: true})
				if err != nil {
					return err
				}
				targets = list
			default:
				return pkgerrors.New(pkgerrors.CodeValidation, "pass a product or --all")
			}

			rows := make([][]string, 0, len(targets))
			failed := 0
			for _, p := range targets {
				report, err := rt.app.Ledger.Audit(ctx, p.ID)
				if err != nil {
					return err
				}
				status := okStyle.Render("ok")
				if !report.Consistent() {
					failed++
					status = dangerStyle.Render(report.Issues[0])
				}
				rows = append(rows, []string{
					report.SKU,
					strconv.Itoa(report.InitialQuantity),
					fmt.Sprintf("%+d", report.NetDelta),
					strconv.Itoa(report.CurrentQuantity),
					strconv.Itoa(report.TransactionCount),
					status,
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"SKU", "Initial", "Net", "Current", "Movements", "Status"}, rows)
			if failed > 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%d product(s) failed the audit", failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "audit every product, including inactive ones")
	return cmd
}

func printMovement(cmd *cobra.Command, p *models.Product, txn *models.StockTransaction) {
	success(cmd.OutOrStdout(), "%s %s %+d: %d → %d", p.SKU, txn.Kind, txn.Delta, txn.PreviousQuantity, txn.ResultingQty)
}
