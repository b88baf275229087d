package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/errtally/pkg/task"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// quietReport is the JSON document written in quiet mode: the summary plus the
// paths that need attention.
type quietReport struct {
	Summary     Summary  `json:"summary"`
	WithErrors  []string `json:"with_errors"`
	FailedFiles []string `json:"failed"`
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON. Matched log lines are written as they
// appear in the file, without HTML escaping.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if f.opts.Quiet {
		return encoder.Encode(newQuietReport(report))
	}

	return encoder.Encode(report)
}

func newQuietReport(report *Report) quietReport {
	q := quietReport{
		Summary:     report.Summary,
		WithErrors:  []string{},
		FailedFiles: []string{},
	}
	for _, file := range report.Files {
		if file.TotalErrors > 0 {
			q.WithErrors = append(q.WithErrors, file.Path)
		}
		if file.State == task.StateFailed {
			q.FailedFiles = append(q.FailedFiles, file.Path)
		}
	}
	return q
}
