package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/djinn-dev/djinn/internal/appgen"
	"github.com/djinn-dev/djinn/internal/output"
)

// AppCmd creates and returns the 'app' command for adding apps to an
// existing project
func AppCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "app [names...]",
		Short: "Add apps to an existing project",
		Long: `Adds one or more apps to the project in the current directory.

The project layout is detected from its directory shape; the new apps
are created where that layout keeps them and registered in the settings
and URL files. Apps that already exist are skipped.

Example:
  djinn app payments shipping`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			installer := appgen.New()
			if err := installer.Install(cmd.Context(), root, splitNames(args), appgen.Options{DryRun: dryRun}); err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing anything")

	return cmd
}

// splitNames accepts both "a b c" and "a,b,c" argument styles.
func splitNames(args []string) []string {
	var names []string
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
