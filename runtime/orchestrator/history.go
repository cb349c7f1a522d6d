package orchestrator

import (
	"sync"

	"github.com/graphor/graphor/runtime/execution"
)

// DefaultHistoryLimit bounds the completed-instance history when no limit is
// configured.
const DefaultHistoryLimit = 100

// History is a bounded, mutex-guarded log of finished instances. When the
// bound is reached the oldest record is evicted. Aggregate statistics are
// kept separately so eviction never skews them.
type History[T any] struct {
	mu      sync.RWMutex
	limit   int
	records []*execution.Record[T]
}

// NewHistory creates a history bounded to limit records; a non-positive
// limit falls back to DefaultHistoryLimit.
func NewHistory[T any](limit int) *History[T] {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History[T]{limit: limit}
}

// Add appends a finished instance record, evicting the oldest when full.
func (h *History[T]) Add(record *execution.Record[T]) {
	if record == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	if len(h.records) > h.limit {
		h.records = h.records[len(h.records)-h.limit:]
	}
}

// Len returns the number of retained records.
func (h *History[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Records returns retained records most recent first, optionally filtered by
// workflow name and capped to limit (non-positive limit returns all).
func (h *History[T]) Records(workflow string, limit int) []*execution.Record[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ret := make([]*execution.Record[T], 0, len(h.records))
	for i := len(h.records) - 1; i >= 0; i-- {
		record := h.records[i]
		if workflow != "" && record.Workflow != workflow {
			continue
		}
		ret = append(ret, record)
		if limit > 0 && len(ret) >= limit {
			break
		}
	}
	return ret
}
