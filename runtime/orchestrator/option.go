package orchestrator

import (
	"github.com/graphor/graphor/model/state"
	"github.com/graphor/graphor/runtime/executor"
)

// Option customises the orchestrator service.
type Option[T any] func(*Service[T])

// WithExecutor sets the executor instances run on.
func WithExecutor[T any](exec *executor.Service[T]) Option[T] {
	return func(s *Service[T]) {
		s.executor = exec
	}
}

// WithInstanceDAO sets the live-instance store.
func WithInstanceDAO[T any](dao InstanceDAO[T]) Option[T] {
	return func(s *Service[T]) {
		s.active = dao
	}
}

// WithHistoryLimit bounds the finished-instance history.
func WithHistoryLimit[T any](limit int) Option[T] {
	return func(s *Service[T]) {
		s.history = NewHistory[T](limit)
	}
}

// WithConverter sets the converter applied to typed init parameters.
func WithConverter[T any](converter *state.Converter) Option[T] {
	return func(s *Service[T]) {
		s.converter = converter
	}
}
