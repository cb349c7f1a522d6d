package orchestrator

import (
	"sort"
	"sync"

	"github.com/graphor/graphor/model"
)

// registry is the mutex-guarded map of registered workflow definitions.
type registry[T any] struct {
	mu        sync.RWMutex
	workflows map[string]*model.Workflow[T]
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{workflows: map[string]*model.Workflow[T]{}}
}

func (r *registry[T]) put(workflow *model.Workflow[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[workflow.Name] = workflow
}

func (r *registry[T]) get(name string) *model.Workflow[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.workflows[name]
}

func (r *registry[T]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
