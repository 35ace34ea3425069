package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/money"
)

func productCommands(rt *runtime) []*cobra.Command {
	return []*cobra.Command{
		productAddCommand(rt),
		productListCommand(rt),
		productShowCommand(rt),
		productUpdateCommand(rt),
		productToggleCommand(rt, "products:deactivate", "Deactivate a product; history is kept", false),
		productToggleCommand(rt, "products:activate", "Reactivate a product", true),
	}
}

func productAddCommand(rt *runtime) *cobra.Command {
	var (
		input    product.CreateProductInput
		supplier string
		price    string
		cost     string
	)
	cmd := &cobra.Command{
		Use:   "products:add",
		Short: "Register a product",
		Example: "  grocer products:add --sku DRY-004 --name \"Greek Yogurt\" --supplier \"Dairy Direct\" \\\n" +
			"    --price 1.29 --cost 0.70 --qty 24 --threshold 10 --category dairy",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := rt.app.Suppliers.Resolve(ctx, supplier)
			if err != nil {
				return err
			}
			input.SupplierID = s.ID
			if input.PriceCents, err = parseMoneyFlag("price", price); err != nil {
				return err
			}
			if input.CostCents, err = parseMoneyFlag("cost", cost); err != nil {
				return err
			}
			input.Description = optionalFlag(cmd, "description")
			input.Barcode = optionalFlag(cmd, "barcode")
			input.Brand = optionalFlag(cmd, "brand")
			input.Location = optionalFlag(cmd, "location")

			p, err := rt.app.Products.Create(ctx, input)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Added product %s %s (%s)", p.SKU, p.Name, p.ID)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.SKU, "sku", "", "stock keeping unit (required, unique)")
	flags.StringVar(&input.Name, "name", "", "product name (required)")
	flags.StringVar(&supplier, "supplier", "", "supplier name or id (required)")
	flags.StringVar(&price, "price", "0", "unit price, e.g. 2.49")
	flags.StringVar(&cost, "cost", "0", "unit cost, e.g. 1.20")
	flags.IntVar(&input.Quantity, "qty", 0, "initial quantity on hand")
	flags.IntVar(&input.ReorderThreshold, "threshold", 0, "reorder threshold")
	flags.IntVar(&input.MaxStockLevel, "max-stock", 0, "max stock level (0 = unbounded)")
	flags.IntVar(&input.ReorderQuantity, "reorder-qty", 0, "quantity for restock orders (0 = fill to twice the threshold)")
	flags.StringVar(&input.Category, "category", "", "category ("+strings.Join(categoryNames(), ", ")+")")
	flags.StringVar(&input.Unit, "unit", "", "unit of measure (default each)")
	flags.BoolVar(&input.IsPerishable, "perishable", false, "perishable goods")
	flags.String("description", "", "description")
	flags.String("barcode", "", "barcode")
	flags.String("brand", "", "brand")
	flags.String("location", "", "shelf or storage location")
	_ = cmd.MarkFlagRequired("sku")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("supplier")
	return cmd
}

func productListCommand(rt *runtime) *cobra.Command {
	var (
		filter   product.ListFilter
		supplier string
		category string
	)
	cmd := &cobra.Command{
		Use:   "products:list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if supplier != "" {
				s, err := rt.app.Suppliers.Resolve(ctx, supplier)
				if err != nil {
					return err
				}
				filter.SupplierID = &s.ID
			}
			if category != "" {
				c, err := enums.ParseProductCategory(category)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
				}
				filter.Category = &c
			}
			rows, err := rt.app.Products.List(ctx, filter)
			if err != nil {
				return err
			}
			renderProducts(cmd, rows)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&filter.IncludeInactive, "all", false, "include inactive products")
	flags.BoolVar(&filter.LowStockOnly, "low", false, "only products at or below their threshold")
	flags.StringVar(&filter.Search, "search", "", "match name, SKU, brand or barcode")
	flags.StringVar(&supplier, "supplier", "", "supplier name or id")
	flags.StringVar(&category, "category", "", "category")
	return cmd
}

func productShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "products:show <sku|id>",
		Short: "Show product details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.app.Products.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			supplierName := p.SupplierID.String()
			if s, err := rt.app.Suppliers.Get(cmd.Context(), p.SupplierID); err == nil {
				supplierName = s.Name
			}
			renderProduct(cmd, p, supplierName)
			return nil
		},
	}
}

func productUpdateCommand(rt *runtime) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "products:update <sku|id>",
		Short:   "Update product fields with --set key=value",
		Long:    "Update product fields. Prices take dollar amounts (price=2.49, cost=1.10) and supplier takes a name or id. Quantity changes go through the stock commands.",
		Example: "  grocer products:update DRY-001 --set price=5.29 --set reorder_threshold=25",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := rt.app.Products.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			var input product.UpdateProductInput
			if ref, ok := values["supplier"]; ok {
				s, err := rt.app.Suppliers.Resolve(ctx, ref)
				if err != nil {
					return err
				}
				input.SupplierID = &s.ID
				delete(values, "supplier")
			}
			patch, err := moneyFields(values, "price", "cost")
			if err != nil {
				return err
			}
			if len(patch) > 0 || input.SupplierID == nil {
				if err := decodePatch(patch, &input); err != nil {
					return err
				}
			}
			updated, err := rt.app.Products.Update(ctx, p.ID, input)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Updated %s", updated.SKU)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment, repeatable")
	return cmd
}

func productToggleCommand(rt *runtime, use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <sku|id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.app.Products.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if active {
				p, err = rt.app.Products.Activate(cmd.Context(), p.ID)
			} else {
				p, err = rt.app.Products.Deactivate(cmd.Context(), p.ID)
			}
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Product %s active: %s", p.SKU, yesNo(p.IsActive))
			return nil
		},
	}
}

func renderProducts(cmd *cobra.Command, rows []models.Product) {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		qty := strconv.Itoa(p.Quantity)
		switch {
		case p.Quantity == 0:
			qty = dangerStyle.Render(qty)
		case p.Quantity <= p.ReorderThreshold:
			qty = warnStyle.Render(qty)
		}
		out = append(out, []string{
			p.SKU,
			p.Name,
			string(p.Category),
			qty,
			strconv.Itoa(p.ReorderThreshold),
			money.Format(p.PriceCents),
			money.Format(p.StockValueCents()),
			yesNo(p.IsActive),
		})
	}
	renderTable(cmd.OutOrStdout(), []string{"SKU", "Name", "Category", "Qty", "Threshold", "Price", "Value", "Active"}, out)
}

func renderProduct(cmd *cobra.Command, p *models.Product, supplierName string) {
	maxStock := "unbounded"
	if p.MaxStockLevel > 0 {
		maxStock = strconv.Itoa(p.MaxStockLevel)
	}
	renderFields(cmd.OutOrStdout(), p.SKU+" "+p.Name, []field{
		{"ID", p.ID.String()},
		{"Category", string(p.Category)},
		{"Supplier", supplierName},
		{"Unit", p.Unit},
		{"Price", money.Format(p.PriceCents)},
		{"Cost", money.Format(p.CostCents)},
		{"Quantity", strconv.Itoa(p.Quantity)},
		{"Initial quantity", strconv.Itoa(p.InitialQuantity)},
		{"Reorder threshold", strconv.Itoa(p.ReorderThreshold)},
		{"Reorder quantity", strconv.Itoa(p.ReorderQuantity)},
		{"Max stock", maxStock},
		{"Stock value", money.Format(p.StockValueCents())},
		{"Description", deref(p.Description)},
		{"Brand", deref(p.Brand)},
		{"Barcode", deref(p.Barcode)},
		{"Location", deref(p.Location)},
		{"Perishable", yesNo(p.IsPerishable)},
		{"Active", yesNo(p.IsActive)},
	})
}

func parseMoneyFlag(name, raw string) (int64, error) {
	cents, err := money.ParseCents(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]string{name: err.Error()})
	}
	return cents, nil
}

func categoryNames() []string {
	categories := enums.ProductCategories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, strings.ToLower(string(c)))
	}
	return names
}
