package graphor

import (
	"github.com/graphor/graphor/extension"
	"github.com/graphor/graphor/runtime/executor"
	"github.com/graphor/graphor/runtime/orchestrator"
	"github.com/graphor/graphor/service/dao/definition"
	"github.com/viant/afs/storage"
)

// Option customises the service facade.
type Option[T any] func(*Service[T])

// WithTypes sets the data type registry used by typed init parameters.
func WithTypes[T any](types *extension.Types) Option[T] {
	return func(s *Service[T]) {
		s.types = types
	}
}

// WithBindings sets the handler and router bindings declarative definitions
// resolve against.
func WithBindings[T any](bindings *definition.Bindings[T]) Option[T] {
	return func(s *Service[T]) {
		s.bindings = bindings
	}
}

// WithExecutor replaces the executor.
func WithExecutor[T any](exec *executor.Service[T]) Option[T] {
	return func(s *Service[T]) {
		s.executor = exec
	}
}

// WithOrchestrator replaces the orchestrator.
func WithOrchestrator[T any](orch *orchestrator.Service[T]) Option[T] {
	return func(s *Service[T]) {
		s.orchestrator = orch
	}
}

// WithHistoryLimit bounds the finished-instance history.
func WithHistoryLimit[T any](limit int) Option[T] {
	return func(s *Service[T]) {
		s.historyLimit = limit
	}
}

// WithDefaultMaxIterations sets the ceiling applied to workflows that do not
// declare their own.
func WithDefaultMaxIterations[T any](limit int) Option[T] {
	return func(s *Service[T]) {
		s.defaultMaxIterations = limit
	}
}

// WithFsOptions passes storage options, such as an embedded file system, to
// the definition loader.
func WithFsOptions[T any](options ...storage.Option) Option[T] {
	return func(s *Service[T]) {
		s.fsOptions = options
	}
}
