package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errtally/pkg/config"
	"github.com/ccollicutt/errtally/pkg/output"
	"github.com/ccollicutt/errtally/pkg/report"
	"github.com/ccollicutt/errtally/pkg/source"
	"github.com/ccollicutt/errtally/pkg/task"
	"github.com/ccollicutt/errtally/pkg/webhook"
)

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	Output  string
	Verbose bool
	Quiet   bool

	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewScanCommand creates the scan command.
func NewScanCommand(global *GlobalOptions) *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [log-file...]",
		Short: "Scan log files for error-count markers",
		Long: `Scan log files for lines declaring "number of errors: N".

Each file is scanned on its own background task. Every marker with N > 0 is
logged as soon as it is found; a report covering all files is printed once
every task has finished. Paths may be glob patterns and are combined with the
log_sources of the configuration file.

Exit codes:
  0 - No error markers found
  1 - Error markers found
  2 - A file could not be scanned, or a configuration error`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, global, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include line counts and timing")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, global *GlobalOptions, opts *ScanOptions) error {
	ExitCode = 0

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := global.loadConfig(ctx)
	if err != nil {
		return err
	}
	log, err := global.logger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	formatter, ok := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if !ok {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	hooks, err := collectWebhooks(cfg, opts)
	if err != nil {
		return err
	}

	// Expand log source globs
	patterns := append(append([]string{}, args...), cfg.LogSources...)
	if len(patterns) == 0 {
		return errors.New("no log files given (pass paths or set log_sources in the config file)")
	}
	files, err := source.ExpandGlobs(patterns)
	if err != nil {
		return fmt.Errorf("expanding log sources: %w", err)
	}

	// One background task per file; matches are logged as they arrive
	collector := report.NewCollector()
	reporter := report.Multi(report.NewLogReporter(log), collector)

	handles := make([]*task.Handle, 0, len(files))
	for _, file := range files {
		handles = append(handles, task.Submit(file, reporter, task.WithMaxLineBytes(cfg.MaxLineBytes)))
	}
	log.Debug().Int("tasks", len(handles)).Msg("scans submitted")

	task.WaitAll(handles...)

	// Output report
	rep := output.NewReport(collector.Records(), global.ConfigPath)
	if err := formatter.Format(ctx, rep, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged, never fatal
	if len(hooks) > 0 {
		webhook.NewClient().Dispatch(ctx, hooks, rep, log)
	}

	// Set exit code based on results
	switch {
	case rep.HasFailures():
		ExitCode = 2
	case rep.HasErrors():
		ExitCode = 1
	}
	return nil
}

// collectWebhooks merges config file webhooks with the one given by flags.
func collectWebhooks(cfg *config.Config, opts *ScanOptions) ([]config.WebhookConfig, error) {
	hooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	hooks = append(hooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL == "" {
		return hooks, nil
	}

	cli := config.WebhookConfig{
		Name:    "cli",
		URL:     opts.WebhookURL,
		Token:   opts.WebhookToken,
		Trigger: config.WebhookTrigger(opts.WebhookTrigger),
	}
	if err := cli.Validate(); err != nil {
		return nil, fmt.Errorf("webhook flags: %w", err)
	}
	return append(hooks, cli), nil
}
