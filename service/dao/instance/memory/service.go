// Package memory provides an in-memory store for live workflow instances.
package memory

import (
	"context"
	"sync"

	"github.com/graphor/graphor/runtime/execution"
	"github.com/graphor/graphor/service/dao"
)

// Service stores live instances in a mutex-guarded map. It satisfies
// dao.Service keyed by instance id.
type Service[T any] struct {
	mu        sync.RWMutex
	instances map[string]*execution.Instance[T]
}

// New creates an in-memory instance store.
func New[T any]() *Service[T] {
	return &Service[T]{instances: make(map[string]*execution.Instance[T])}
}

// Save stores the instance under its id.
func (s *Service[T]) Save(ctx context.Context, key string, instance *execution.Instance[T]) error {
	if key == "" {
		return dao.ErrInvalidID
	}
	if instance == nil {
		return dao.ErrNilEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[key] = instance
	return nil
}

// Get returns the instance stored under the id.
func (s *Service[T]) Get(ctx context.Context, key string) (*execution.Instance[T], error) {
	if key == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.instances[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return instance, nil
}

// Delete removes the instance.
func (s *Service[T]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.instances, key)
	return nil
}

// List returns all live instances in unspecified order.
func (s *Service[T]) List(ctx context.Context) ([]*execution.Instance[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*execution.Instance[T], 0, len(s.instances))
	for _, instance := range s.instances {
		ret = append(ret, instance)
	}
	return ret, nil
}
