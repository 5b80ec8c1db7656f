package cmd

import (
	"fmt"

	"github.com/nfrund/storefront/internal/app"
	"github.com/spf13/cobra"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice <orderId>",
	Short: "Regenerate the PDF invoice of an order",
	Long: `Render the invoice of an order again and overwrite the stored PDF under
<storage root>/invoices. Useful after a template change or a lost file.

Examples:
  storefront-cli invoice 01hv3k9x2b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			invoices, err := a.Invoices()
			if err != nil {
				return err
			}
			path, err := invoices.Regenerate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("regenerate invoice %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invoice written to %s\n", path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
}
