package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/errtally/pkg/extract"
	"github.com/ccollicutt/errtally/pkg/source"
)

// ErrAlreadyStarted is returned when Start is called on a runner that has
// already left StateIdle.
var ErrAlreadyStarted = errors.New("task already started")

// Request identifies one scan. It never changes after the runner is created.
type Request struct {
	// ID is a random identifier used to correlate the events of one task.
	ID string
	// Path is the log file to scan.
	Path string
}

// Result summarizes a finished task.
type Result struct {
	State State
	// Matches is the number of match events delivered.
	Matches int
	// TotalErrors is the sum of the counts of all matches.
	TotalErrors int
	// Lines is the number of lines read before the task ended.
	Lines int
	// Err is set when State is StateFailed.
	Err error

	Started time.Time
	Ended   time.Time
}

// Runner owns a single scan of a single file. It can be started once; the scan
// runs on a goroutine owned by the runner which exits right after the Finished
// event and the closing of Done.
type Runner struct {
	req          Request
	reporter     Reporter
	maxLineBytes int
	now          func() time.Time

	state  atomic.Int32
	done   chan struct{}
	result Result // written before done is closed
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxLineBytes bounds the memory kept for one line. Longer lines are skipped,
// not treated as failures. Zero means no bound.
func WithMaxLineBytes(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxLineBytes = n
		}
	}
}

// WithClock replaces time.Now for the Started and Ended timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates an idle runner bound to path. A nil reporter discards events.
func New(path string, reporter Reporter, opts ...Option) *Runner {
	if reporter == nil {
		reporter = Discard
	}

	r := &Runner{
		req:          Request{ID: uuid.NewString(), Path: path},
		reporter:     reporter,
		now:          time.Now,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start moves the runner from StateIdle to StateRunning and launches the scan.
// Any later call returns ErrAlreadyStarted and does nothing.
func (r *Runner) Start() error {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	go r.run()
	return nil
}

// Request returns the request the runner is bound to.
func (r *Runner) Request() Request { return r.req }

// State returns the current lifecycle state.
func (r *Runner) State() State { return State(r.state.Load()) }

// Done is closed exactly once, after the Finished event has been delivered.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Wait blocks until the task has finished and returns its result. Waiting on a
// runner that was never started blocks forever.
func (r *Runner) Wait() Result {
	<-r.done
	return r.result
}

func (r *Runner) run() {
	defer close(r.done)

	if sr, ok := r.reporter.(StartReporter); ok {
		r.safely(func() { sr.Started(r.req) })
	}

	res := r.scan()
	res.Ended = r.now()

	r.result = res
	r.state.Store(int32(res.State))

	r.safely(func() { r.reporter.Finished(r.req, res) })
}

// scan opens the file and streams every match to the reporter. A panic raised
// by the reporter ends the task in StateFailed.
func (r *Runner) scan() (res Result) {
	res.Started = r.now()

	defer func() {
		if p := recover(); p != nil {
			res.State = StateFailed
			res.Err = fmt.Errorf("scanning %s: panic: %v", r.req.Path, p)
		}
	}()

	f, err := source.Open(r.req.Path)
	if err != nil {
		res.State = StateFailed
		res.Err = err
		r.reporter.Failed(r.req, err)
		return res
	}
	defer f.Close()

	sc := extract.NewLineScanner(f, extract.WithMaxLineBytes(r.maxLineBytes))

	// Tasks cannot be canceled once started.
	ctx := context.Background()
	for {
		m, err := sc.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			// The file was opened but reading it failed.
			res.Lines = sc.LinesRead()
			res.State = StateFailed
			res.Err = fmt.Errorf("scanning %s: %w", r.req.Path, err)
			r.reporter.Failed(r.req, res.Err)
			return res
		}

		res.Matches++
		res.TotalErrors += m.Count
		r.reporter.Match(r.req, *m)
	}

	res.Lines = sc.LinesRead()
	res.State = StateCompleted
	return res
}

func (r *Runner) safely(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
