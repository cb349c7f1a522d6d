package model

import (
	"fmt"

	"github.com/graphor/graphor/model/graph"
	"github.com/graphor/graphor/model/state"
)

// DefaultMaxIterations caps step executions for workflows that do not set
// their own ceiling.
const DefaultMaxIterations = 5

// Workflow is an immutable description of one workflow type: named steps,
// conditional edges, one entry step and one or more terminal markers. It is
// generic over the domain payload its steps and routers operate on.
type Workflow[T any] struct {
	// Name is the unique identifier for the workflow.
	Name string `json:"name" yaml:"name"`

	// Description provides a human-readable description of the workflow.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version specifies the workflow version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Entry names the step every instance starts at.
	Entry string `json:"entry" yaml:"entry"`

	// MaxIterations caps step executions per instance; zero means
	// DefaultMaxIterations.
	MaxIterations int `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty"`

	// Init parameters are applied to the state container before the entry
	// step runs.
	Init state.Parameters `json:"init,omitempty" yaml:"init,omitempty"`

	// Steps holds the graph's steps in declaration order.
	Steps []*graph.Step[T] `json:"steps" yaml:"steps"`

	index map[string]*graph.Step[T]
}

// NewWorkflow creates a new workflow with the given name.
func NewWorkflow[T any](name string) *Workflow[T] {
	return &Workflow[T]{Name: name, index: map[string]*graph.Step[T]{}}
}

// WithDescription sets the description of the workflow.
func (w *Workflow[T]) WithDescription(description string) *Workflow[T] {
	w.Description = description
	return w
}

// WithVersion sets the version of the workflow.
func (w *Workflow[T]) WithVersion(version string) *Workflow[T] {
	w.Version = version
	return w
}

// WithEntry sets the entry step name.
func (w *Workflow[T]) WithEntry(name string) *Workflow[T] {
	w.Entry = name
	return w
}

// WithMaxIterations sets the per-instance step execution ceiling.
func (w *Workflow[T]) WithMaxIterations(limit int) *Workflow[T] {
	w.MaxIterations = limit
	return w
}

// WithInit adds an initialization parameter to the workflow.
func (w *Workflow[T]) WithInit(name string, value interface{}) *Workflow[T] {
	w.Init.Add(name, value)
	return w
}

// AddStep appends a step to the workflow; the first added step becomes the
// entry unless one was set explicitly.
func (w *Workflow[T]) AddStep(step *graph.Step[T]) *Workflow[T] {
	if w.index == nil {
		w.index = map[string]*graph.Step[T]{}
	}
	w.Steps = append(w.Steps, step)
	w.index[step.Name] = step
	if w.Entry == "" {
		w.Entry = step.Name
	}
	return w
}

// NewStep creates a step, adds it to the workflow and returns it for further
// configuration.
func (w *Workflow[T]) NewStep(name string, handler graph.StepFunc[T]) *graph.Step[T] {
	step := graph.NewStep(name, handler)
	w.AddStep(step)
	return step
}

// Step returns a step by name, or nil when absent.
func (w *Workflow[T]) Step(name string) *graph.Step[T] {
	if w.index == nil {
		w.reindex()
	}
	return w.index[name]
}

// Ceiling returns the effective iteration ceiling.
func (w *Workflow[T]) Ceiling() int {
	if w.MaxIterations > 0 {
		return w.MaxIterations
	}
	return DefaultMaxIterations
}

func (w *Workflow[T]) reindex() {
	w.index = make(map[string]*graph.Step[T], len(w.Steps))
	for _, step := range w.Steps {
		w.index[step.Name] = step
	}
}

// Validate performs structural validation of the workflow so that malformed
// graphs fail at registration rather than at run time. The returned slice is
// empty when the workflow is sound. It verifies that:
//   - an entry step is set and exists,
//   - step names are unique,
//   - every successor references an existing step,
//   - every step declaring outcomes other than graph.Always has a router,
//   - every step is reachable from the entry,
//   - a terminal is reachable from every reachable step.
func (w *Workflow[T]) Validate() []error {
	var issues []error
	w.reindex()

	if len(w.Steps) == 0 {
		return append(issues, fmt.Errorf("workflow %v has no steps", w.Name))
	}
	if w.Entry == "" {
		issues = append(issues, fmt.Errorf("workflow %v has no entry step", w.Name))
	} else if w.index[w.Entry] == nil {
		issues = append(issues, fmt.Errorf("entry step %v does not exist", w.Entry))
	}

	seen := map[string]bool{}
	for _, step := range w.Steps {
		if seen[step.Name] {
			issues = append(issues, fmt.Errorf("duplicate step name %v", step.Name))
		}
		seen[step.Name] = true

		for _, edge := range step.Edges {
			for _, successor := range edge.Successors {
				if w.index[successor] == nil {
					issues = append(issues, fmt.Errorf("step %v routes outcome %v to unknown step %v", step.Name, edge.Outcome, successor))
				}
			}
		}
		if step.Router == nil {
			for _, outcome := range step.Outcomes() {
				if outcome != graph.Always {
					issues = append(issues, fmt.Errorf("step %v declares outcome %v but has no router", step.Name, outcome))
				}
			}
		}
	}
	if len(issues) > 0 {
		return issues
	}

	reachable := w.reachableFromEntry()
	for _, step := range w.Steps {
		if !reachable[step.Name] {
			issues = append(issues, fmt.Errorf("step %v is unreachable from entry", step.Name))
		}
	}

	terminating := w.canTerminate()
	for _, step := range w.Steps {
		if reachable[step.Name] && !terminating[step.Name] {
			issues = append(issues, fmt.Errorf("no terminal is reachable from step %v", step.Name))
		}
	}
	return issues
}

// reachableFromEntry walks every edge from the entry step.
func (w *Workflow[T]) reachableFromEntry() map[string]bool {
	reachable := map[string]bool{}
	stack := []string{w.Entry}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[name] {
			continue
		}
		reachable[name] = true
		step := w.index[name]
		if step == nil {
			continue
		}
		for _, edge := range step.Edges {
			stack = append(stack, edge.Successors...)
		}
	}
	return reachable
}

// canTerminate computes, via reverse propagation, the set of steps from
// which some terminal transition is reachable. A step can end an instance
// directly when it is a terminal marker, has no edges, or maps an outcome to
// an empty successor list.
func (w *Workflow[T]) canTerminate() map[string]bool {
	terminating := map[string]bool{}
	for _, step := range w.Steps {
		if step.Terminal || len(step.Edges) == 0 {
			terminating[step.Name] = true
			continue
		}
		for _, edge := range step.Edges {
			if len(edge.Successors) == 0 {
				terminating[step.Name] = true
				break
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for _, step := range w.Steps {
			if terminating[step.Name] {
				continue
			}
			for _, edge := range step.Edges {
				for _, successor := range edge.Successors {
					if terminating[successor] {
						terminating[step.Name] = true
						changed = true
						break
					}
				}
				if terminating[step.Name] {
					break
				}
			}
		}
	}
	return terminating
}
