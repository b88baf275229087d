package report

import (
	"sort"
	"sync"

	"github.com/ccollicutt/errtally/pkg/extract"
	"github.com/ccollicutt/errtally/pkg/task"
)

// FileRecord is everything collected for one task.
type FileRecord struct {
	Request task.Request
	Matches []extract.Match
	Result  task.Result
	// Finished is false until the task's Finished event arrives.
	Finished bool
}

// Collector accumulates events from any number of tasks. It is safe for
// concurrent use.
type Collector struct {
	mu      sync.Mutex
	records map[string]*FileRecord
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{records: make(map[string]*FileRecord)}
}

func (c *Collector) record(req task.Request) *FileRecord {
	rec, ok := c.records[req.ID]
	if !ok {
		rec = &FileRecord{Request: req}
		c.records[req.ID] = rec
	}
	return rec
}

// Match stores a finding.
func (c *Collector) Match(req task.Request, m extract.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.record(req)
	rec.Matches = append(rec.Matches, m)
}

// Failed registers the task; the error itself arrives with the result.
func (c *Collector) Failed(req task.Request, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(req)
}

// Finished stores the task result.
func (c *Collector) Finished(req task.Request, res task.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.record(req)
	rec.Result = res
	rec.Finished = true
}

// Records returns a copy of every record, ordered by path then task ID.
func (c *Collector) Records() []FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]FileRecord, 0, len(c.records))
	for _, rec := range c.records {
		cp := *rec
		cp.Matches = append([]extract.Match(nil), rec.Matches...)
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Request.Path != out[j].Request.Path {
			return out[i].Request.Path < out[j].Request.Path
		}
		return out[i].Request.ID < out[j].Request.ID
	})
	return out
}
