package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errtally/pkg/extract"
	"github.com/ccollicutt/errtally/pkg/source"
)

// NewFirstCommand creates the first command.
func NewFirstCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "first <log-file>",
		Short: "Print the first error count found anywhere in a file",
		Long: `Read a whole file and print the digits of the first "errors: N" it contains.

Unlike scan, the file is searched as a single block of text: the marker may span
lines, any "...errors: N" phrase counts, and zero is reported as found. The file
is read in the foreground and must fit within max_read_bytes (64 MiB by default);
raise max_read_bytes in the configuration file for larger files.

Exit codes:
  0 - A count was found
  1 - No count found
  2 - The file could not be read, or a configuration error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFirst(cmd, args, global)
		},
	}
}

func runFirst(cmd *cobra.Command, args []string, global *GlobalOptions) error {
	ExitCode = 0
	path := args[0]

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := global.loadConfig(ctx)
	if err != nil {
		return err
	}
	log, err := global.logger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	content, err := source.ReadAll(path, cfg.MaxReadBytes)
	if err != nil {
		msg := "unable to read file"
		if errors.Is(err, source.ErrOpen) {
			msg = "unable to open file"
		}
		// Reported like a failed scan task: one record and exit code 2.
		log.Error().Str("path", path).Str("severity", "critical").Err(err).Msg(msg)
		ExitCode = 2
		return nil
	}

	digits, ok := extract.FirstMatch(content)
	if !ok {
		log.Debug().Str("path", path).Msg("no error count found")
		fmt.Fprintln(cmd.OutOrStdout(), "no match")
		ExitCode = 1
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "found: %s\n", digits)
	return nil
}
