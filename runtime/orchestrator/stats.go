package orchestrator

import (
	"sync"
	"time"

	"github.com/graphor/graphor/runtime/execution"
)

type (
	// Statistics is a point-in-time aggregate over every instance the
	// orchestrator has seen. Counters are cumulative since start-up and do
	// not decay when history records are evicted, so
	// Total == Running + Completed + Failed + Cancelled always holds.
	Statistics struct {
		Total         int                      `json:"total"`
		Running       int                      `json:"running"`
		Completed     int                      `json:"completed"`
		Failed        int                      `json:"failed"`
		Cancelled     int                      `json:"cancelled"`
		SuccessRate   float64                  `json:"successRate"`
		AvgDurationMs float64                  `json:"avgDurationMs"`
		Workflows     map[string]WorkflowStats `json:"workflows,omitempty"`
	}

	// WorkflowStats is the per-workflow breakdown.
	WorkflowStats struct {
		Total         int     `json:"total"`
		Running       int     `json:"running"`
		Completed     int     `json:"completed"`
		Failed        int     `json:"failed"`
		Cancelled     int     `json:"cancelled"`
		AvgDurationMs float64 `json:"avgDurationMs"`
	}

	collector struct {
		mu        sync.Mutex
		workflows map[string]*counters
	}

	counters struct {
		running    int
		completed  int
		failed     int
		cancelled  int
		durationMs float64
	}
)

func newCollector() *collector {
	return &collector{workflows: map[string]*counters{}}
}

func (c *collector) counters(workflow string) *counters {
	ret, ok := c.workflows[workflow]
	if !ok {
		ret = &counters{}
		c.workflows[workflow] = ret
	}
	return ret
}

// started counts a newly submitted instance.
func (c *collector) started(workflow string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters(workflow).running++
}

// finished moves a running instance into its terminal bucket.
func (c *collector) finished(workflow string, status execution.Status, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cnt := c.counters(workflow)
	cnt.running--
	switch status {
	case execution.StatusCompleted:
		cnt.completed++
		cnt.durationMs += float64(duration) / float64(time.Millisecond)
	case execution.StatusFailed:
		cnt.failed++
	case execution.StatusCancelled:
		cnt.cancelled++
	}
}

// snapshot computes the aggregate view.
func (c *collector) snapshot() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := Statistics{Workflows: make(map[string]WorkflowStats, len(c.workflows))}
	totalDurationMs := 0.0
	for name, cnt := range c.workflows {
		stats := WorkflowStats{
			Running:   cnt.running,
			Completed: cnt.completed,
			Failed:    cnt.failed,
			Cancelled: cnt.cancelled,
		}
		stats.Total = cnt.running + cnt.completed + cnt.failed + cnt.cancelled
		if cnt.completed > 0 {
			stats.AvgDurationMs = cnt.durationMs / float64(cnt.completed)
		}
		ret.Workflows[name] = stats
		ret.Running += cnt.running
		ret.Completed += cnt.completed
		ret.Failed += cnt.failed
		ret.Cancelled += cnt.cancelled
		totalDurationMs += cnt.durationMs
	}
	ret.Total = ret.Running + ret.Completed + ret.Failed + ret.Cancelled
	if ret.Total > 0 {
		ret.SuccessRate = float64(ret.Completed) / float64(ret.Total)
	}
	if ret.Completed > 0 {
		ret.AvgDurationMs = totalDurationMs / float64(ret.Completed)
	}
	return ret
}
