package main

import (
	"os"

	"github.com/djinn-dev/djinn/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.SetupCmd())
	rootCmd.AddCommand(commands.AppCmd())
	rootCmd.AddCommand(commands.SecretCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
