// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forge-stats",
	Short: "A CLI tool to read repository metadata from the GitHub API.",
	Long: `forge-stats reads the language breakdown, SPDX license identifier and
per-contributor commit activity of a GitHub repository.
Set API_CREDENTIALS_GITHUB to "username:token" to authenticate with HTTP Basic auth.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
