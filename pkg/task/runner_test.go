package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ccollicutt/errtally/pkg/extract"
	"github.com/ccollicutt/errtally/pkg/source"
)

// recorder captures reporter events in delivery order.
type recorder struct {
	mu      sync.Mutex
	events  []string
	matches []extract.Match
	errs    []error
	results []Result
	started int
}

func (r *recorder) Started(Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
	r.events = append(r.events, "started")
}

func (r *recorder) Match(_ Request, m extract.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, m)
	r.events = append(r.events, fmt.Sprintf("match:%d", m.Count))
}

func (r *recorder) Failed(_ Request, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
	r.events = append(r.events, "failed")
}

func (r *recorder) Finished(_ Request, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	r.events = append(r.events, "finished")
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for task to finish")
	}
}

func TestSubmit_Completed(t *testing.T) {
	path := writeLog(t, "startup ok\nnumber of errors   :  3\nnumber of errors: 0\ndone\nnumber of errors: 4\n")
	rec := &recorder{}

	h := Submit(path, rec)
	waitDone(t, h.Done())

	res := h.Wait()
	if res.State != StateCompleted {
		t.Fatalf("State = %s, want completed (err: %v)", res.State, res.Err)
	}
	if h.State() != StateCompleted {
		t.Errorf("Handle.State() = %s, want completed", h.State())
	}
	if res.Matches != 2 || res.TotalErrors != 7 || res.Lines != 5 {
		t.Errorf("Result = %+v, want 2 matches, 7 errors, 5 lines", res)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil", res.Err)
	}

	want := []string{"started", "match:3", "match:4", "finished"}
	if got := rec.snapshot(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
	if rec.matches[0].Line != "number of errors   :  3" || rec.matches[0].LineNum != 2 {
		t.Errorf("first match = %+v", rec.matches[0])
	}
}

func TestSubmit_EmptyFile(t *testing.T) {
	rec := &recorder{}

	h := Submit(writeLog(t, ""), rec)
	res := h.Wait()

	if res.State != StateCompleted {
		t.Fatalf("State = %s, want completed", res.State)
	}
	want := []string{"started", "finished"}
	if got := rec.snapshot(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestSubmit_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")
	rec := &recorder{}

	res := Submit(path, rec).Wait()

	if res.State != StateFailed {
		t.Fatalf("State = %s, want failed", res.State)
	}
	if !errors.Is(res.Err, source.ErrOpen) {
		t.Errorf("Err = %v, want source.ErrOpen", res.Err)
	}
	if len(rec.errs) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1", len(rec.errs))
	}
	if !strings.Contains(rec.errs[0].Error(), path) {
		t.Errorf("diagnostic %q does not name %s", rec.errs[0], path)
	}
	if len(rec.matches) != 0 {
		t.Errorf("got %d match events, want 0", len(rec.matches))
	}
	if len(rec.results) != 1 {
		t.Errorf("got %d finished events, want 1", len(rec.results))
	}
}

func TestSubmit_LongLine(t *testing.T) {
	path := writeLog(t, strings.Repeat("x", 2*1024*1024)+"\nnumber of errors: 5\n")
	rec := &recorder{}

	res := Submit(path, rec).Wait()

	if res.State != StateCompleted {
		t.Fatalf("State = %s, want completed (err %v)", res.State, res.Err)
	}
	want := []string{"started", "match:5", "finished"}
	if got := rec.snapshot(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
	if res.Matches != 1 || res.Lines != 2 {
		t.Errorf("Matches/Lines = %d/%d, want 1/2", res.Matches, res.Lines)
	}
}

func TestSubmit_LongLineBounded(t *testing.T) {
	path := writeLog(t, "number of errors: 1\n"+strings.Repeat("x", 512)+" number of errors: 9\nnumber of errors: 2\n")
	rec := &recorder{}

	res := Submit(path, rec, WithMaxLineBytes(64)).Wait()

	if res.State != StateCompleted {
		t.Fatalf("State = %s, want completed (err %v)", res.State, res.Err)
	}
	want := []string{"started", "match:1", "match:2", "finished"}
	if got := rec.snapshot(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
	if len(rec.errs) != 0 {
		t.Errorf("got %d diagnostics, want 0", len(rec.errs))
	}
}

func TestRunner_StartOnce(t *testing.T) {
	rec := &recorder{}
	r := New(writeLog(t, "number of errors: 1\n"), rec)

	if r.State() != StateIdle {
		t.Fatalf("State() = %s, want idle", r.State())
	}
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	waitDone(t, r.Done())

	if err := r.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start() after finish error = %v, want ErrAlreadyStarted", err)
	}
	if rec.started != 1 || len(rec.results) != 1 {
		t.Errorf("started %d times, finished %d times, want 1 and 1", rec.started, len(rec.results))
	}
}

func TestRunner_ConcurrentStart(t *testing.T) {
	r := New(writeLog(t, "number of errors: 1\n"), nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Start() == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	waitDone(t, r.Done())

	if succeeded != 1 {
		t.Errorf("%d Start() calls succeeded, want 1", succeeded)
	}
}

func TestRunner_FinishedAfterTerminalState(t *testing.T) {
	var stateAtFinish State
	var r *Runner
	r = New(writeLog(t, "number of errors: 2\n"), ReporterFuncs{
		OnFinished: func(Request, Result) { stateAtFinish = r.State() },
	})
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	r.Wait()

	if stateAtFinish != StateCompleted {
		t.Errorf("State() during Finished = %s, want completed", stateAtFinish)
	}
}

func TestRunner_PanickingReporter(t *testing.T) {
	var finished int
	reporter := ReporterFuncs{
		OnMatch:    func(Request, extract.Match) { panic("boom") },
		OnFinished: func(Request, Result) { finished++ },
	}

	res := Submit(writeLog(t, "number of errors: 1\n"), reporter).Wait()

	if res.State != StateFailed {
		t.Errorf("State = %s, want failed", res.State)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "boom") {
		t.Errorf("Err = %v, want panic value", res.Err)
	}
	if finished != 1 {
		t.Errorf("Finished called %d times, want 1", finished)
	}
}

func TestRunner_Clock(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	res := Submit(writeLog(t, ""), nil, WithClock(func() time.Time { return fixed })).Wait()

	if !res.Started.Equal(fixed) || !res.Ended.Equal(fixed) {
		t.Errorf("Started/Ended = %v/%v, want %v", res.Started, res.Ended, fixed)
	}
}

func TestSubmit_Independent(t *testing.T) {
	dir := t.TempDir()
	var handles []*Handle
	rec := &recorder{}

	for i := 1; i <= 8; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.log", i))
		content := strings.Repeat(fmt.Sprintf("number of errors: %d\n", i), i)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		handles = append(handles, Submit(path, rec))
	}
	handles = append(handles, Submit(filepath.Join(dir, "missing.log"), rec))

	results := WaitAll(handles...)

	ids := make(map[string]bool)
	for i, res := range results[:8] {
		n := i + 1
		if res.State != StateCompleted {
			t.Errorf("task %d State = %s, want completed", n, res.State)
		}
		if res.Matches != n || res.TotalErrors != n*n {
			t.Errorf("task %d = %d matches / %d errors, want %d / %d", n, res.Matches, res.TotalErrors, n, n*n)
		}
		ids[handles[i].ID()] = true
	}
	if len(ids) != 8 {
		t.Errorf("got %d distinct task IDs, want 8", len(ids))
	}
	if results[8].State != StateFailed {
		t.Errorf("missing file State = %s, want failed", results[8].State)
	}
	if len(rec.results) != 9 {
		t.Errorf("got %d finished events, want 9", len(rec.results))
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		want     string
		terminal bool
	}{
		{StateIdle, "idle", false},
		{StateRunning, "running", false},
		{StateCompleted, "completed", true},
		{StateFailed, "failed", true},
		{State(42), "unknown", false},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
		if got := tt.state.Terminal(); got != tt.terminal {
			t.Errorf("State(%d).Terminal() = %v, want %v", tt.state, got, tt.terminal)
		}
	}
}
