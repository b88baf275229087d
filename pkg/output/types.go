// Package output provides formatting and output generation for scan results.
package output

import (
	"time"

	"github.com/ccollicutt/errtally/pkg/extract"
	"github.com/ccollicutt/errtally/pkg/report"
	"github.com/ccollicutt/errtally/pkg/task"
)

// Report is the complete scan output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`
	// Files holds one entry per scanned file, ordered by path.
	Files []FileResult `json:"files"`
	// Metadata provides context about the scan.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	FilesScanned    int `json:"files_scanned"`
	FilesFailed     int `json:"files_failed"`
	FilesWithErrors int `json:"files_with_errors"`
	// Matches is the number of error-count markers found.
	Matches int `json:"matches"`
	// TotalErrors is the sum of all reported counts.
	TotalErrors    int `json:"total_errors"`
	LinesProcessed int `json:"lines_processed"`
}

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path        string          `json:"path"`
	TaskID      string          `json:"task_id"`
	State       task.State      `json:"state"`
	Matches     []extract.Match `json:"matches"`
	TotalErrors int             `json:"total_errors"`
	Lines       int             `json:"lines"`
	Error       string          `json:"error,omitempty"`
}

// Metadata provides context about the scan run.
type Metadata struct {
	// ConfigFile is the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`
	// Sources lists the files that were submitted.
	Sources []string `json:"sources"`
	// AnalyzedAt is when the last task finished.
	AnalyzedAt time.Time `json:"analyzed_at"`
	// Duration spans from the first task start to the last task end.
	Duration time.Duration `json:"duration"`
}

// NewReport aggregates collected task records.
func NewReport(records []report.FileRecord, configFile string) *Report {
	r := &Report{
		Files: make([]FileResult, 0, len(records)),
		Metadata: Metadata{
			ConfigFile: configFile,
			Sources:    make([]string, 0, len(records)),
		},
	}

	var first, last time.Time
	for _, rec := range records {
		res := rec.Result
		fr := FileResult{
			Path:        rec.Request.Path,
			TaskID:      rec.Request.ID,
			State:       res.State,
			Matches:     rec.Matches,
			TotalErrors: res.TotalErrors,
			Lines:       res.Lines,
		}
		if fr.Matches == nil {
			fr.Matches = []extract.Match{}
		}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}

		r.Files = append(r.Files, fr)
		r.Metadata.Sources = append(r.Metadata.Sources, fr.Path)

		r.Summary.FilesScanned++
		if res.State == task.StateFailed {
			r.Summary.FilesFailed++
		}
		if res.TotalErrors > 0 {
			r.Summary.FilesWithErrors++
		}
		r.Summary.Matches += len(rec.Matches)
		r.Summary.TotalErrors += res.TotalErrors
		r.Summary.LinesProcessed += res.Lines

		if !res.Started.IsZero() && (first.IsZero() || res.Started.Before(first)) {
			first = res.Started
		}
		if res.Ended.After(last) {
			last = res.Ended
		}
	}

	r.Metadata.AnalyzedAt = last
	if !first.IsZero() && !last.IsZero() {
		r.Metadata.Duration = last.Sub(first)
	}

	return r
}

// HasErrors returns true if any error markers were found.
func (r *Report) HasErrors() bool {
	return r.Summary.TotalErrors > 0
}

// HasFailures returns true if any file could not be scanned.
func (r *Report) HasFailures() bool {
	return r.Summary.FilesFailed > 0
}

// HasIssues returns true if errors were found or a file failed.
func (r *Report) HasIssues() bool {
	return r.HasErrors() || r.HasFailures()
}
