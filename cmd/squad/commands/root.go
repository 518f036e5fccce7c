package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "squad",
	Short: "squadpick - five-a-side roster, peer ratings and team picker",
	Long: `squadpick CLI

Players register, rate each other and mark themselves Ready.
The server splits the ready players into balanced or ranked teams.

Usage:
  go run ./cmd/squad [command]

Examples:
  go run ./cmd/squad api
  go run ./cmd/squad teams --teams 2 --per-team 5 --strategy ranked
  go run ./cmd/squad admin promote alice
  go run ./cmd/squad backup`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
