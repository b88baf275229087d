package report

import (
	"github.com/ccollicutt/errtally/pkg/extract"
	"github.com/ccollicutt/errtally/pkg/task"
)

type multi []task.Reporter

// Multi forwards every event to each reporter in argument order.
func Multi(reporters ...task.Reporter) task.Reporter {
	out := make(multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multi) Started(req task.Request) {
	for _, r := range m {
		if sr, ok := r.(task.StartReporter); ok {
			sr.Started(req)
		}
	}
}

func (m multi) Match(req task.Request, match extract.Match) {
	for _, r := range m {
		r.Match(req, match)
	}
}

func (m multi) Failed(req task.Request, err error) {
	for _, r := range m {
		r.Failed(req, err)
	}
}

func (m multi) Finished(req task.Request, res task.Result) {
	for _, r := range m {
		r.Finished(req, res)
	}
}
