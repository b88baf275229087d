package task

// Handle lets a caller observe a submitted task. It cannot start, restart or
// stop it.
type Handle struct {
	r *Runner
}

// Submit creates a runner for path, starts it and returns a handle to it.
func Submit(path string, reporter Reporter, opts ...Option) *Handle {
	r := New(path, reporter, opts...)
	// A fresh runner is always idle.
	_ = r.Start()
	return &Handle{r: r}
}

// ID returns the task identifier.
func (h *Handle) ID() string { return h.r.req.ID }

// Path returns the scanned file.
func (h *Handle) Path() string { return h.r.req.Path }

// State returns the current lifecycle state.
func (h *Handle) State() State { return h.r.State() }

// Done is closed once the task has finished.
func (h *Handle) Done() <-chan struct{} { return h.r.Done() }

// Wait blocks until the task has finished and returns its result.
func (h *Handle) Wait() Result { return h.r.Wait() }

// WaitAll waits for every handle and returns the results in the same order.
func WaitAll(handles ...*Handle) []Result {
	results := make([]Result, len(handles))
	for i, h := range handles {
		results[i] = h.Wait()
	}
	return results
}
