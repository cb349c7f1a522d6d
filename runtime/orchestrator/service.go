// Package orchestrator manages the population of workflow instances: the
// definition registry, instance lifecycle, the bounded history of finished
// runs and aggregate statistics.
package orchestrator

import (
	"context"
	"errors"

	"github.com/graphor/graphor/internal/idgen"
	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/state"
	"github.com/graphor/graphor/runtime/execution"
	"github.com/graphor/graphor/runtime/executor"
	"github.com/graphor/graphor/service/dao/instance/memory"
	"github.com/graphor/graphor/tracing"
)

// InstanceDAO abstracts the live-instance store.
type InstanceDAO[T any] interface {
	Save(ctx context.Context, key string, instance *execution.Instance[T]) error
	Get(ctx context.Context, key string) (*execution.Instance[T], error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]*execution.Instance[T], error)
}

// Service coordinates concurrent workflow instances over a shared executor.
type Service[T any] struct {
	executor  *executor.Service[T]
	active    InstanceDAO[T]
	history   *History[T]
	stats     *collector
	converter *state.Converter
	registry  *registry[T]
}

// New creates an orchestrator service.
func New[T any](options ...Option[T]) *Service[T] {
	ret := &Service[T]{
		stats:    newCollector(),
		registry: newRegistry[T](),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.executor == nil {
		ret.executor = executor.New[T]()
	}
	if ret.active == nil {
		ret.active = memory.New[T]()
	}
	if ret.history == nil {
		ret.history = NewHistory[T](DefaultHistoryLimit)
	}
	return ret
}

// Register validates a workflow and adds it to the registry. Registering a
// name twice replaces the previous definition for future instances.
func (s *Service[T]) Register(workflow *model.Workflow[T]) error {
	if issues := workflow.Validate(); len(issues) > 0 {
		return &execution.InvalidWorkflowError{Name: workflow.Name, Issues: issues}
	}
	s.registry.put(workflow)
	return nil
}

// Workflow returns a registered workflow by name.
func (s *Service[T]) Workflow(name string) (*model.Workflow[T], error) {
	workflow := s.registry.get(name)
	if workflow == nil {
		return nil, &execution.UnknownWorkflowError{Name: name}
	}
	return workflow, nil
}

// Workflows lists registered workflow names in lexical order.
func (s *Service[T]) Workflows() []string {
	return s.registry.names()
}

// Submit starts a new instance without waiting for it. It returns the
// instance id and a wait function that blocks until the instance finishes.
func (s *Service[T]) Submit(ctx context.Context, workflowName string, payload T) (string, execution.Wait[T], error) {
	workflow, err := s.Workflow(workflowName)
	if err != nil {
		return "", nil, err
	}
	id := idgen.New()
	st := state.New(id, payload)
	if err := s.applyInit(workflow, st); err != nil {
		return "", nil, err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	instance := execution.NewInstance(id, workflow, st, cancel)
	if err := s.active.Save(ctx, id, instance); err != nil {
		cancel()
		return "", nil, err
	}
	s.stats.started(workflow.Name)

	done := make(chan *execution.Record[T], 1)
	go s.run(runCtx, instance, done)

	var record *execution.Record[T]
	wait := func(waitCtx context.Context) (*execution.Record[T], error) {
		if record == nil {
			select {
			case record = <-done:
			case <-waitCtx.Done():
				return nil, waitCtx.Err()
			}
		}
		if record.Error != "" {
			return record, errors.New(record.Error)
		}
		return record, nil
	}
	return id, wait, nil
}

// Start runs a new instance of the named workflow to completion. The history
// record is written before any failure is returned, so statistics stay
// consistent even when the caller ignores the error.
func (s *Service[T]) Start(ctx context.Context, workflowName string, payload T) (*execution.Record[T], error) {
	_, wait, err := s.Submit(ctx, workflowName, payload)
	if err != nil {
		return nil, err
	}
	return wait(ctx)
}

// run executes the instance and performs finalization bookkeeping. When the
// run lost the terminal transition to Cancel, bookkeeping already happened
// there and is skipped here.
func (s *Service[T]) run(ctx context.Context, instance *execution.Instance[T], done chan<- *execution.Record[T]) {
	ctx, span := tracing.StartSpan(ctx, "workflow."+instance.Workflow.Name)
	span.WithAttributes(map[string]string{
		"workflow": instance.Workflow.Name,
		"instance": instance.ID,
	})
	terminal, err := s.executor.Run(ctx, instance.Workflow, instance.State)
	tracing.EndSpan(span, err)

	status := execution.StatusCompleted
	switch {
	case errors.Is(err, execution.ErrCancelled):
		status = execution.StatusCancelled
	case err != nil:
		status = execution.StatusFailed
	}
	if instance.Transition(status, terminal, err) {
		s.finalize(instance)
	}
	done <- instance.Record()
}

// Cancel stops a running instance. It returns true when this call performed
// the cancellation and false when the instance is unknown or already
// finished, making repeated cancellation idempotent.
func (s *Service[T]) Cancel(ctx context.Context, id string) bool {
	instance, err := s.active.Get(ctx, id)
	if err != nil {
		return false
	}
	if !instance.Transition(execution.StatusCancelled, "", execution.ErrCancelled) {
		return false
	}
	s.finalize(instance)
	return true
}

// finalize records the finished instance. Called exactly once per instance,
// by whoever won the terminal transition.
func (s *Service[T]) finalize(instance *execution.Instance[T]) {
	record := instance.Record()
	s.history.Add(record)
	s.stats.finished(record.Workflow, record.Status, record.Duration)
	_ = s.active.Delete(context.Background(), instance.ID)
}

// Active returns summaries of all running instances.
func (s *Service[T]) Active(ctx context.Context) ([]execution.Summary, error) {
	instances, err := s.active.List(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]execution.Summary, 0, len(instances))
	for _, instance := range instances {
		if instance.Status() != execution.StatusRunning {
			continue
		}
		ret = append(ret, instance.Summary())
	}
	return ret, nil
}

// History returns finished instance records most recent first, optionally
// filtered by workflow name and capped to limit.
func (s *Service[T]) History(workflow string, limit int) []*execution.Record[T] {
	return s.history.Records(workflow, limit)
}

// Statistics returns the cumulative aggregate over all instances.
func (s *Service[T]) Statistics() Statistics {
	return s.stats.snapshot()
}

// applyInit copies the definition's init parameters into the state
// container, converting values whose parameter declares a data type.
func (s *Service[T]) applyInit(workflow *model.Workflow[T], st *state.State[T]) error {
	if len(workflow.Init) == 0 {
		return nil
	}
	if s.converter == nil {
		for _, param := range workflow.Init {
			st.Params[param.Name] = param.Value
		}
		return nil
	}
	return s.converter.Apply(workflow.Init, st.Params)
}
