// Package executor implements the graph engine: the loop that walks a
// workflow definition step by step, evaluates routers and enforces the
// iteration ceiling.
package executor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/graph"
	"github.com/graphor/graphor/model/state"
	"github.com/graphor/graphor/runtime/execution"
	"github.com/graphor/graphor/tracing"
)

// Config defines executor settings.
type Config struct {
	// DefaultMaxIterations is the step execution ceiling applied to
	// workflows that do not declare their own.
	DefaultMaxIterations int `json:"defaultMaxIterations,omitempty" yaml:"defaultMaxIterations,omitempty"`
}

// DefaultConfig returns the default executor configuration.
func DefaultConfig() *Config {
	return &Config{DefaultMaxIterations: model.DefaultMaxIterations}
}

// Service runs workflow instances to a terminal step. It is stateless; all
// per-instance data lives in the state container, so one service is shared by
// any number of concurrent instances.
type Service[T any] struct {
	config *Config
}

// New creates an executor service.
func New[T any](options ...Option[T]) *Service[T] {
	ret := &Service[T]{config: DefaultConfig()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Run executes the workflow against the state container until a terminal
// transition, the iteration ceiling, a fatal failure or context cancellation.
// It returns the name of the step that ended the instance.
//
// Successor lists are pushed to the front of the work queue, so a fan-out
// edge runs its successors depth first and in declaration order, all against
// the same state container.
func (s *Service[T]) Run(ctx context.Context, workflow *model.Workflow[T], st *state.State[T]) (string, error) {
	ceiling := s.ceiling(workflow)
	queue := []string{workflow.Entry}
	last := ""

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return last, execution.ErrCancelled
		default:
		}

		name := queue[0]
		queue = queue[1:]
		step := workflow.Step(name)
		if step == nil {
			return last, fmt.Errorf("workflow %v has no step %v", workflow.Name, name)
		}
		if st.Iterations >= ceiling {
			return last, &execution.MaxIterationsError{Limit: ceiling}
		}

		stepErr := s.runStep(ctx, workflow, step, st)

		// A result arriving after cancellation is discarded without touching
		// the recorded counters.
		select {
		case <-ctx.Done():
			return last, execution.ErrCancelled
		default:
		}

		st.Iterations++
		st.Meta.TotalSteps++
		last = name

		if stepErr != nil {
			if step.Fatal {
				return name, &execution.FatalStepError{Step: name, Err: stepErr}
			}
			st.AddError(name, stepErr)
		}

		if step.Terminal {
			return name, nil
		}
		if len(step.Edges) == 0 {
			continue
		}
		outcome := step.Route(st)
		successors, ok := step.Successors(outcome)
		if !ok {
			return name, &execution.UnroutableError{Step: name, Outcome: outcome}
		}
		if len(successors) == 0 {
			return name, nil
		}
		queue = append(append([]string{}, successors...), queue...)
	}
	return last, nil
}

// runStep invokes the step handler inside a span, converting panics to
// errors so a buggy handler fails its instance instead of the process.
func (s *Service[T]) runStep(ctx context.Context, workflow *model.Workflow[T], step *graph.Step[T], st *state.State[T]) (err error) {
	ctx, span := tracing.StartSpan(ctx, "step."+step.Name)
	span.WithAttributes(map[string]string{
		"workflow":   workflow.Name,
		"step":       step.Name,
		"instance":   st.Meta.InstanceID,
		"iterations": strconv.Itoa(st.Iterations),
	})
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %v panicked: %v", step.Name, r)
		}
		tracing.EndSpan(span, err)
	}()
	return step.Handler(ctx, st)
}

func (s *Service[T]) ceiling(workflow *model.Workflow[T]) int {
	if workflow.MaxIterations > 0 {
		return workflow.MaxIterations
	}
	if s.config.DefaultMaxIterations > 0 {
		return s.config.DefaultMaxIterations
	}
	return model.DefaultMaxIterations
}
