package commands

import (
	"github.com/spf13/cobra"

	"github.com/djinn-dev/djinn/internal/output"
)

// Version is stamped by the release build.
var Version = "dev"

// RootCmd creates and returns the root command for the djinn CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "djinn",
		Short: "Structure-aware generator for Django REST projects",
		Long: `Djinn scaffolds Django REST projects and grows them safely.

It generates complete projects in one of four layouts, then adds apps
to an existing project by detecting its layout and editing the settings
and URL files through stable anchors instead of regenerating them.

Example:
  djinn setup myshop --apps store,billing
  djinn app payments`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
