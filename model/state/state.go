// Package state defines the per-instance mutable container the graph engine
// threads through successive step invocations. A container is owned by
// exactly one running instance and is never shared between instances, so it
// carries no locking.
package state

import (
	"time"

	"github.com/graphor/graphor/internal/clock"
)

// StepError records a recoverable failure raised by a step. The engine logs
// it into the container and routes past it unless the step is marked fatal.
type StepError struct {
	Step    string    `json:"step" yaml:"step"`
	Message string    `json:"message" yaml:"message"`
	Time    time.Time `json:"time" yaml:"time"`
}

// Metadata carries execution bookkeeping for one instance.
type Metadata struct {
	InstanceID string     `json:"instanceId" yaml:"instanceId"`
	StartedAt  time.Time  `json:"startedAt" yaml:"startedAt"`
	EndedAt    *time.Time `json:"endedAt,omitempty" yaml:"endedAt,omitempty"`
	TotalSteps int        `json:"totalSteps" yaml:"totalSteps"`
}

// State is the mutable record for one workflow instance, generic over the
// domain payload the workflow's steps and routers operate on. The engine
// never interprets Data; it only reads routing outcomes derived from it.
type State[T any] struct {
	// Data is the typed domain payload, opaque to the engine.
	Data T `json:"data" yaml:"data"`

	// Params holds init parameters applied once from the definition before
	// the entry step runs. Steps treat them as read-only configuration.
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`

	// Errors accumulates recoverable step failures in execution order.
	Errors []StepError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Iterations counts step executions since the instance started (or since
	// a step last reset it to bound a nested refinement loop).
	Iterations int `json:"iterations" yaml:"iterations"`

	Meta Metadata `json:"meta" yaml:"meta"`
}

// New creates a state container for the given instance and payload.
func New[T any](instanceID string, data T) *State[T] {
	return &State[T]{
		Data:   data,
		Params: make(map[string]interface{}),
		Meta: Metadata{
			InstanceID: instanceID,
			StartedAt:  clock.Now(),
		},
	}
}

// AddError appends a recoverable step failure.
func (s *State[T]) AddError(step string, err error) {
	if err == nil {
		return
	}
	s.Errors = append(s.Errors, StepError{Step: step, Message: err.Error(), Time: clock.Now()})
}

// HasErrors reports whether any step recorded a failure.
func (s *State[T]) HasErrors() bool { return len(s.Errors) > 0 }

// LastError returns the most recent step failure, or nil.
func (s *State[T]) LastError() *StepError {
	if len(s.Errors) == 0 {
		return nil
	}
	return &s.Errors[len(s.Errors)-1]
}

// Param retrieves an init parameter.
func (s *State[T]) Param(name string) (interface{}, bool) {
	value, ok := s.Params[name]
	return value, ok
}

// ParamString retrieves an init parameter as a string.
func (s *State[T]) ParamString(name string) (string, bool) {
	value, ok := s.Params[name]
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// ParamInt retrieves an init parameter as an int.
func (s *State[T]) ParamInt(name string) (int, bool) {
	value, ok := s.Params[name]
	if !ok {
		return 0, false
	}
	i, ok := value.(int)
	return i, ok
}

// ParamBool retrieves an init parameter as a bool.
func (s *State[T]) ParamBool(name string) (bool, bool) {
	value, ok := s.Params[name]
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// Finish stamps the end time once; later calls are no-ops.
func (s *State[T]) Finish() {
	if s.Meta.EndedAt != nil {
		return
	}
	now := clock.Now()
	s.Meta.EndedAt = &now
}
