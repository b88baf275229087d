package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errtally/pkg/config"
	"github.com/ccollicutt/errtally/pkg/source"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an errtally configuration file without scanning anything.

Checks:
  - YAML syntax
  - Log level and format names
  - Size limits
  - Webhook URLs and triggers
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	out := cmd.OutOrStdout()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Log level:      %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	if cfg.MaxLineBytes > 0 {
		fmt.Fprintf(out, "  Max line bytes: %d\n", cfg.MaxLineBytes)
	} else {
		fmt.Fprintf(out, "  Max line bytes: unlimited\n")
	}
	fmt.Fprintf(out, "  Max read bytes: %d\n", cfg.MaxReadBytes)
	fmt.Fprintf(out, "  Webhooks:       %d\n", len(cfg.Webhooks))
	for _, wh := range cfg.Webhooks {
		fmt.Fprintf(out, "    - %s [%s]\n", wh.DisplayName(), wh.Trigger)
	}

	if len(cfg.LogSources) == 0 {
		fmt.Fprintf(out, "\nNo log_sources configured; pass files to scan on the command line.\n")
		return nil
	}

	files, err := source.ExpandGlobs(cfg.LogSources)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding log source patterns: %v\n", err)
		return nil
	}

	fmt.Fprintf(out, "\nLog files matched: %d\n", len(files))
	for _, f := range files {
		fh, err := source.Open(f)
		if err != nil {
			fmt.Fprintf(out, "  - %s (warning: %v)\n", f, err)
			continue
		}
		_ = fh.Close()
		fmt.Fprintf(out, "  - %s\n", f)
	}

	return nil
}
