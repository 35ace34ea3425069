package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/models"
)

func supplierCommands(rt *runtime) []*cobra.Command {
	return []*cobra.Command{
		supplierAddCommand(rt),
		supplierListCommand(rt),
		supplierShowCommand(rt),
		supplierUpdateCommand(rt),
		supplierToggleCommand(rt, "suppliers:deactivate", "Deactivate a supplier", false),
		supplierToggleCommand(rt, "suppliers:activate", "Reactivate a supplier", true),
	}
}

func supplierAddCommand(rt *runtime) *cobra.Command {
	var input suppliers.CreateSupplierInput
	cmd := &cobra.Command{
		Use:   "suppliers:add",
		Short: "Register a supplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input.ContactPerson = optionalFlag(cmd, "contact")
			input.Email = optionalFlag(cmd, "email")
			input.Phone = optionalFlag(cmd, "phone")
			input.Address = optionalFlag(cmd, "address")
			input.City = optionalFlag(cmd, "city")
			input.State = optionalFlag(cmd, "state")
			input.PostalCode = optionalFlag(cmd, "postal-code")
			if cmd.Flags().Changed("lead-time") {
				days, _ := cmd.Flags().GetInt("lead-time")
				input.LeadTimeDays = &days
			}
			supplier, err := rt.app.Suppliers.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Added supplier %s (%s)", supplier.Name, supplier.ID)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.Name, "name", "", "supplier name (required, unique)")
	flags.StringVar(&input.Country, "country", "", "country code (default US)")
	flags.Int("lead-time", 0, "lead time in days (default from GROCER_RESTOCK_DEFAULT_LEAD_TIME_DAYS)")
	flags.String("contact", "", "contact person")
	flags.String("email", "", "contact email")
	flags.String("phone", "", "contact phone")
	flags.String("address", "", "street address")
	flags.String("city", "", "city")
	flags.String("state", "", "state or region")
	flags.String("postal-code", "", "postal code")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func supplierListCommand(rt *runtime) *cobra.Command {
	var filter suppliers.ListFilter
	cmd := &cobra.Command{
		Use:   "suppliers:list",
		Short: "List suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := rt.app.Suppliers.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := make([][]string, 0, len(rows))
			for _, s := range rows {
				out = append(out, []string{
					s.Name,
					deref(s.ContactPerson),
					deref(s.Email),
					deref(s.Phone),
					strconv.Itoa(s.LeadTimeDays),
					yesNo(s.IsActive),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"Name", "Contact", "Email", "Phone", "Lead days", "Active"}, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&filter.IncludeInactive, "all", false, "include inactive suppliers")
	cmd.Flags().StringVar(&filter.Search, "search", "", "match name or contact")
	return cmd
}

func supplierShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "suppliers:show <name|id>",
		Short: "Show supplier details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			supplier, err := rt.app.Suppliers.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderSupplier(cmd, supplier)
			return nil
		},
	}
}

func supplierUpdateCommand(rt *runtime) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "suppliers:update <name|id>",
		Short:   "Update supplier fields with --set key=value",
		Example: "  grocer suppliers:update \"Dairy Direct\" --set phone=555-0199 --set lead_time_days=4",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			supplier, err := rt.app.Suppliers.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			patch := make(map[string]any, len(values))
			for k, v := range values {
				patch[k] = v
			}
			var input suppliers.UpdateSupplierInput
			if err := decodePatch(patch, &input); err != nil {
				return err
			}
			updated, err := rt.app.Suppliers.Update(cmd.Context(), supplier.ID, input)
			if err != nil {
				return err
			}
			renderSupplier(cmd, updated)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment, repeatable")
	return cmd
}

func supplierToggleCommand(rt *runtime, use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name|id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			supplier, err := rt.app.Suppliers.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if active {
				supplier, err = rt.app.Suppliers.Activate(cmd.Context(), supplier.ID)
			} else {
				supplier, err = rt.app.Suppliers.Deactivate(cmd.Context(), supplier.ID)
			}
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Supplier %s active: %s", supplier.Name, yesNo(supplier.IsActive))
			return nil
		},
	}
}

func renderSupplier(cmd *cobra.Command, s *models.Supplier) {
	renderFields(cmd.OutOrStdout(), s.Name, []field{
		{"ID", s.ID.String()},
		{"Contact", deref(s.ContactPerson)},
		{"Email", deref(s.Email)},
		{"Phone", deref(s.Phone)},
		{"Address", deref(s.Address)},
		{"City", deref(s.City)},
		{"State", deref(s.State)},
		{"Postal code", deref(s.PostalCode)},
		{"Country", s.Country},
		{"Lead time", fmt.Sprintf("%d days", s.LeadTimeDays)},
		{"Active", yesNo(s.IsActive)},
	})
}
