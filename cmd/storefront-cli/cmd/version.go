package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0" // set at build time with -ldflags

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of storefront-cli",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "storefront-cli v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
