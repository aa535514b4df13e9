// Package cli implements the boostly command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boostly",
	Short: "Boostly — social engagement marketplace daemon",
	Long: `Boostly runs a virtual-coin engagement marketplace: accounts fund
campaigns that pay other accounts for views and follows, a bot simulator
keeps the feed moving, and everything is served over a local REST API.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
