package output

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/errtally/pkg/task"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "errtally: %d files scanned, %d with errors, %d failed, %d total errors\n",
		report.Summary.FilesScanned,
		report.Summary.FilesWithErrors,
		report.Summary.FilesFailed,
		report.Summary.TotalErrors)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== errtally Scan Report ===")
	fmt.Fprintln(w)

	for i := range report.Files {
		f.formatFile(&report.Files[i], w)
	}

	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Summary: %d files scanned, %d with errors, %d failed, %d markers, %d total errors\n",
		report.Summary.FilesScanned,
		report.Summary.FilesWithErrors,
		report.Summary.FilesFailed,
		report.Summary.Matches,
		report.Summary.TotalErrors)
	if err != nil {
		return err
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
		_, err = fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}
	return err
}

func (f *TextFormatter) formatFile(file *FileResult, w io.Writer) {
	switch {
	case file.State == task.StateFailed:
		fmt.Fprintf(w, "[FAILED] %s\n", file.Path)
		fmt.Fprintf(w, "  %s\n", file.Error)
		if len(file.Matches) == 0 {
			fmt.Fprintln(w)
			return
		}
	case file.TotalErrors > 0:
		fmt.Fprintf(w, "[ERRORS] %s\n", file.Path)
	default:
		fmt.Fprintf(w, "[CLEAN] %s\n", file.Path)
		fmt.Fprintln(w, "  No error markers found")
		if f.opts.Verbose {
			fmt.Fprintf(w, "  Lines: %d\n", file.Lines)
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  %d marker(s), %d total errors\n", len(file.Matches), file.TotalErrors)
	for _, m := range file.Matches {
		fmt.Fprintf(w, "  - line %d: errorsNum=%d, from line=%s\n", m.LineNum, m.Count, m.Line)
	}
	if f.opts.Verbose {
		fmt.Fprintf(w, "  Lines: %d\n", file.Lines)
	}
	fmt.Fprintln(w)
}
