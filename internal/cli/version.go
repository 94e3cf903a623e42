package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/electrum-nmc/formbuilder/internal/app"
)

// newVersionCmd shows version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), app.GetVersionInfo())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "formbuilder v%s\n", app.GetVersion())
			}
		},
	}
}
