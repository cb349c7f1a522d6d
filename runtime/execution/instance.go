// Package execution defines the runtime view of one workflow instance: its
// lifecycle status, terminal record and the errors the executor can surface.
package execution

import (
	"context"
	"sync"
	"time"

	"github.com/graphor/graphor/internal/clock"
	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/state"
)

// Status represents the lifecycle state of a workflow instance.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

type (
	// Instance is one live run of a workflow. Its status transitions exactly
	// once from running to a terminal status; the transition winner performs
	// the finalization bookkeeping.
	Instance[T any] struct {
		ID        string
		Workflow  *model.Workflow[T]
		State     *state.State[T]
		StartedAt time.Time

		mu           sync.Mutex
		status       Status
		endedAt      time.Time
		terminalStep string
		err          error
		cancel       context.CancelFunc
	}

	// Record is the immutable snapshot of a finished instance kept in
	// history.
	Record[T any] struct {
		ID           string        `json:"id"`
		Workflow     string        `json:"workflow"`
		Status       Status        `json:"status"`
		StartedAt    time.Time     `json:"startedAt"`
		EndedAt      time.Time     `json:"endedAt"`
		Duration     time.Duration `json:"duration"`
		TerminalStep string        `json:"terminalStep,omitempty"`
		Error        string        `json:"error,omitempty"`
		State        *state.State[T]
	}

	// Summary is the lightweight view of a running instance.
	Summary struct {
		ID        string        `json:"id"`
		Workflow  string        `json:"workflow"`
		Status    Status        `json:"status"`
		StartedAt time.Time     `json:"startedAt"`
		Elapsed   time.Duration `json:"elapsed"`
	}

	// Wait blocks until the instance finishes and returns its record.
	Wait[T any] func(ctx context.Context) (*Record[T], error)
)

// NewInstance creates a running instance for the given workflow. The cancel
// function is invoked once the instance reaches a terminal status.
func NewInstance[T any](id string, workflow *model.Workflow[T], st *state.State[T], cancel context.CancelFunc) *Instance[T] {
	return &Instance[T]{
		ID:        id,
		Workflow:  workflow,
		State:     st,
		StartedAt: clock.Now(),
		status:    StatusRunning,
		cancel:    cancel,
	}
}

// Status returns the current lifecycle status.
func (i *Instance[T]) Status() Status {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Err returns the terminal error, if any.
func (i *Instance[T]) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// Transition moves the instance to a terminal status. It returns true for
// exactly one caller; losers must skip finalization bookkeeping. The winner's
// transition cancels the instance context.
func (i *Instance[T]) Transition(status Status, terminalStep string, err error) bool {
	i.mu.Lock()
	if i.status != StatusRunning {
		i.mu.Unlock()
		return false
	}
	i.status = status
	i.terminalStep = terminalStep
	i.err = err
	i.endedAt = clock.Now()
	cancel := i.cancel
	i.mu.Unlock()

	i.State.Finish()
	if cancel != nil {
		cancel()
	}
	return true
}

// Elapsed returns how long the instance has been running, or its total
// duration once finished.
func (i *Instance[T]) Elapsed() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status.Terminal() {
		return i.endedAt.Sub(i.StartedAt)
	}
	return clock.Now().Sub(i.StartedAt)
}

// Summary returns the lightweight view of the instance.
func (i *Instance[T]) Summary() Summary {
	i.mu.Lock()
	defer i.mu.Unlock()
	elapsed := clock.Now().Sub(i.StartedAt)
	if i.status.Terminal() {
		elapsed = i.endedAt.Sub(i.StartedAt)
	}
	return Summary{
		ID:        i.ID,
		Workflow:  i.Workflow.Name,
		Status:    i.status,
		StartedAt: i.StartedAt,
		Elapsed:   elapsed,
	}
}

// Record snapshots a finished instance. Call only after Transition returned
// true.
func (i *Instance[T]) Record() *Record[T] {
	i.mu.Lock()
	defer i.mu.Unlock()
	errMessage := ""
	if i.err != nil {
		errMessage = i.err.Error()
	}
	return &Record[T]{
		ID:           i.ID,
		Workflow:     i.Workflow.Name,
		Status:       i.status,
		StartedAt:    i.StartedAt,
		EndedAt:      i.endedAt,
		Duration:     i.endedAt.Sub(i.StartedAt),
		TerminalStep: i.terminalStep,
		Error:        errMessage,
		State:        i.State,
	}
}
