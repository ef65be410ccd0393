// Package cli implements the flustudio command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputJSON bool
	noProgress bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flustudio",
		Short: "Flutter project and SDK manager",
	}

	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress rendering")

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRefreshCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newOpenCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newTagCmd())
	cmd.AddCommand(newTagsCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newPubCmd())
	cmd.AddCommand(newDevicesCmd())
	cmd.AddCommand(newSDKCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newScaffoldCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
