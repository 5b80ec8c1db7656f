package cmd

import (
	"fmt"
	"time"

	"github.com/nfrund/storefront/internal/app"
	"github.com/spf13/cobra"
)

var purgeSessionsCmd = &cobra.Command{
	Use:   "purge-sessions",
	Short: "Delete expired server-side sessions",
	Long: `Delete every session row whose expiry lies in the past. The server runs the
same purge hourly; this command is for cron jobs and one-off cleanups.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			store, err := a.Sessions()
			if err != nil {
				return err
			}
			n, err := store.PurgeExpired(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("purge sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired sessions\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(purgeSessionsCmd)
}
