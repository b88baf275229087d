package task

import "github.com/ccollicutt/errtally/pkg/extract"

// Reporter receives the events of a task. All calls for one task come from that
// task's goroutine, in order: any number of Match calls, at most one Failed, then
// exactly one Finished. Nothing is delivered after Finished.
//
// A Reporter shared by several tasks is called concurrently and must be safe for
// that.
type Reporter interface {
	Match(req Request, m extract.Match)
	Failed(req Request, err error)
	Finished(req Request, res Result)
}

// StartReporter is implemented by reporters that want to know when a task's
// goroutine begins, before the file is opened.
type StartReporter interface {
	Started(req Request)
}

// ReporterFuncs adapts plain functions to Reporter. Nil fields are ignored.
type ReporterFuncs struct {
	OnMatch    func(Request, extract.Match)
	OnFailed   func(Request, error)
	OnFinished func(Request, Result)
}

func (f ReporterFuncs) Match(req Request, m extract.Match) {
	if f.OnMatch != nil {
		f.OnMatch(req, m)
	}
}

func (f ReporterFuncs) Failed(req Request, err error) {
	if f.OnFailed != nil {
		f.OnFailed(req, err)
	}
}

func (f ReporterFuncs) Finished(req Request, res Result) {
	if f.OnFinished != nil {
		f.OnFinished(req, res)
	}
}

// Discard drops every event.
var Discard Reporter = ReporterFuncs{}
