// Package report provides task.Reporter implementations.
package report

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/errtally/pkg/extract"
	"github.com/ccollicutt/errtally/pkg/source"
	"github.com/ccollicutt/errtally/pkg/task"
)

// LogReporter writes task events as structured log records.
type LogReporter struct {
	log zerolog.Logger
}

// NewLogReporter creates a reporter writing to logger.
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{log: logger}
}

// Started logs the beginning of a task at debug level.
func (r *LogReporter) Started(req task.Request) {
	r.log.Debug().
		Str("task", req.ID).
		Str("path", req.Path).
		Msg("scan started")
}

// Match logs one error-count finding at info level.
func (r *LogReporter) Match(req task.Request, m extract.Match) {
	r.log.Info().
		Str("task", req.ID).
		Str("path", req.Path).
		Int("errors", m.Count).
		Int("line_num", m.LineNum).
		Msgf("errorsNum=%d, from line=%s", m.Count, m.Line)
}

// Failed logs an unreadable file. zerolog has no critical level, so the record is
// written at error level and tagged with severity=critical.
func (r *LogReporter) Failed(req task.Request, err error) {
	msg := "unable to read file"
	if errors.Is(err, source.ErrOpen) {
		msg = "unable to open file"
	}

	r.log.Error().
		Str("task", req.ID).
		Str("path", req.Path).
		Str("severity", "critical").
		Err(err).
		Msg(msg)
}

// Finished logs the task outcome at debug level.
func (r *LogReporter) Finished(req task.Request, res task.Result) {
	r.log.Debug().
		Str("task", req.ID).
		Str("path", req.Path).
		Stringer("state", res.State).
		Int("matches", res.Matches).
		Int("total_errors", res.TotalErrors).
		Int("lines", res.Lines).
		Dur("elapsed", res.Ended.Sub(res.Started)).
		Msg("scan finished")
}
