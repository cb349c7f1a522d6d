package graphor

import (
	"context"

	"github.com/graphor/graphor/extension"
	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/state"
	"github.com/graphor/graphor/runtime/execution"
	"github.com/graphor/graphor/runtime/executor"
	"github.com/graphor/graphor/runtime/orchestrator"
	"github.com/graphor/graphor/service/dao/definition"
	"github.com/viant/afs/storage"
)

// Service is the top-level facade wiring the executor, the orchestrator and
// the definition loader behind one API.
type Service[T any] struct {
	types        *extension.Types
	executor     *executor.Service[T]
	orchestrator *orchestrator.Service[T]
	definitions  *definition.Service[T]
	bindings     *definition.Bindings[T]
	fsOptions    []storage.Option

	historyLimit         int
	defaultMaxIterations int
}

// New creates a fully wired service.
func New[T any](options ...Option[T]) *Service[T] {
	ret := &Service[T]{}
	for _, opt := range options {
		opt(ret)
	}
	ret.ensureBaseSetup()
	return ret
}

func (s *Service[T]) ensureBaseSetup() {
	if s.types == nil {
		s.types = extension.NewTypes()
	}
	if s.bindings == nil {
		s.bindings = definition.NewBindings[T]()
	}
	if s.definitions == nil {
		s.definitions = definition.New[T]()
	}
	if s.executor == nil {
		execOptions := []executor.Option[T]{}
		if s.defaultMaxIterations > 0 {
			execOptions = append(execOptions, executor.WithDefaultMaxIterations[T](s.defaultMaxIterations))
		}
		s.executor = executor.New(execOptions...)
	}
	if s.orchestrator == nil {
		orchOptions := []orchestrator.Option[T]{
			orchestrator.WithExecutor(s.executor),
			orchestrator.WithConverter[T](state.NewConverter(s.types)),
		}
		if s.historyLimit > 0 {
			orchOptions = append(orchOptions, orchestrator.WithHistoryLimit[T](s.historyLimit))
		}
		s.orchestrator = orchestrator.New(orchOptions...)
	}
}

// Types exposes the data type registry used by typed init parameters.
func (s *Service[T]) Types() *extension.Types {
	return s.types
}

// Bindings exposes the handler and router bindings declarative definitions
// resolve against.
func (s *Service[T]) Bindings() *definition.Bindings[T] {
	return s.bindings
}

// Orchestrator exposes the underlying orchestrator.
func (s *Service[T]) Orchestrator() *orchestrator.Service[T] {
	return s.orchestrator
}

// Register validates and registers a workflow definition.
func (s *Service[T]) Register(workflow *model.Workflow[T]) error {
	return s.orchestrator.Register(workflow)
}

// LoadAndRegister loads a declarative definition from the URL, binds its
// handlers and routers and registers the result.
func (s *Service[T]) LoadAndRegister(ctx context.Context, URL string) (*model.Workflow[T], error) {
	workflow, err := s.definitions.Load(ctx, URL, s.bindings, s.fsOptions...)
	if err != nil {
		return nil, err
	}
	if err := s.orchestrator.Register(workflow); err != nil {
		return nil, err
	}
	return workflow, nil
}

// Start runs a new instance of the named workflow to completion.
func (s *Service[T]) Start(ctx context.Context, workflow string, payload T) (*execution.Record[T], error) {
	return s.orchestrator.Start(ctx, workflow, payload)
}

// Submit starts a new instance without waiting, returning its id and a wait
// function.
func (s *Service[T]) Submit(ctx context.Context, workflow string, payload T) (string, execution.Wait[T], error) {
	return s.orchestrator.Submit(ctx, workflow, payload)
}

// Cancel stops a running instance; it reports whether this call cancelled it.
func (s *Service[T]) Cancel(ctx context.Context, id string) bool {
	return s.orchestrator.Cancel(ctx, id)
}

// Active returns summaries of running instances.
func (s *Service[T]) Active(ctx context.Context) ([]execution.Summary, error) {
	return s.orchestrator.Active(ctx)
}

// History returns finished instance records, most recent first.
func (s *Service[T]) History(workflow string, limit int) []*execution.Record[T] {
	return s.orchestrator.History(workflow, limit)
}

// Statistics returns the cumulative aggregate over all instances.
func (s *Service[T]) Statistics() orchestrator.Statistics {
	return s.orchestrator.Statistics()
}
