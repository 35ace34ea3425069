package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/seed"
)

func seedCommand(rt *runtime) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load suppliers and products from a YAML file; existing records are left alone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				f   *seed.File
				err error
			)
			if path == "" {
				f, err = seed.Sample()
			} else {
				f, err = seed.LoadFile(path)
			}
			if err != nil {
				return err
			}
			result, err := rt.app.Seeder.Apply(cmd.Context(), f)
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf(
				"Suppliers: %d created, %d skipped. Products: %d created, %d skipped.",
				result.SuppliersCreated, result.SuppliersSkipped, result.ProductsCreated, result.ProductsSkipped,
			)))
			return err
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "seed file (default: built-in sample store)")
	return cmd
}
