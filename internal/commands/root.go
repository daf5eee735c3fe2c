package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendview-dev/spendview/internal/buildinfo"
)

type rootOptions struct {
	dir     string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "spendview",
		Short:   "Bank transaction intelligence: categorization and recurring-payment detection",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newTeachCommand(opts))
	rootCmd.AddCommand(newMappingsCommand(opts))
	rootCmd.AddCommand(newRecurringCommand(opts))
	rootCmd.AddCommand(newBudgetCommand(opts))
	rootCmd.AddCommand(newStatsCommand(opts))

	return rootCmd
}
