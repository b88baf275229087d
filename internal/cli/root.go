// Package cli provides the command-line interface for errtally.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errtally/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors keeps cobra from printing this itself.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "errtally",
		Short: "Tally the error counts reported in log files",
		Long: `errtally scans log files for lines such as

  number of errors: 3

and reports every non-zero count it finds, with the line it came from.

  scan   background scan of one or more files, streaming findings as they are found
  first  foreground search of a whole file for the first "errors: N"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&global.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&global.LogFormat, "log-format", "", "Log format (console|json)")

	rootCmd.AddCommand(commands.NewScanCommand(global))
	rootCmd.AddCommand(commands.NewFirstCommand(global))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
