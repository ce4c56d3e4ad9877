// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "accelerator-admin",
	Short: "Accelerator Admin is a web-based administration dashboard",
	Long: `Accelerator Admin is a web-based administration dashboard providing
user, billing and content management, with typed platform and per-user
settings stored as sparse overrides on top of built-in defaults.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
