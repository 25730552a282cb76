package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/djinn-dev/djinn/internal/output"
	"github.com/djinn-dev/djinn/internal/secret"
)

// SecretCmd creates and returns the 'secret' command for generating
// Django secret keys
func SecretCmd() *cobra.Command {
	var (
		count  int
		length int
	)

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate Django secret keys",
		Long: `Generates cryptographically secure secret keys suitable for
Django's SECRET_KEY setting.

Example:
  djinn secret
  djinn secret --count 3 --length 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := secret.Generate(count, length)
			if err != nil {
				output.Error(err.Error())
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of keys to generate")
	cmd.Flags().IntVar(&length, "length", secret.DefaultLength, "Key length (minimum 8)")

	return cmd
}
