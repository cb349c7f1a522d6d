package graph

import (
	"context"

	"github.com/graphor/graphor/model/state"
)

// Outcome is a routing key returned by a step's router. The set of outcomes a
// step understands is closed at definition time: every outcome must be bound
// to an edge before the workflow is registered.
type Outcome string

// Always is the outcome used by steps that route unconditionally.
const Always Outcome = "always"

type (
	// StepFunc transforms the workflow state. It may append errors to the
	// state or return one; it never alters graph topology.
	StepFunc[T any] func(ctx context.Context, s *state.State[T]) error

	// RouterFunc selects the outgoing edge for the current state. Routers
	// must be pure and must tolerate unset fields by falling back to a
	// documented default outcome rather than failing.
	RouterFunc[T any] func(s *state.State[T]) Outcome

	// Edge binds a routing outcome to an ordered list of successor steps.
	// Successors execute sequentially against the same state container; an
	// empty list ends the instance.
	Edge struct {
		Outcome    Outcome  `json:"outcome" yaml:"outcome"`
		Successors []string `json:"successors" yaml:"successors"`
	}

	// Step is a named unit of work within a workflow.
	Step[T any] struct {
		Name    string        `json:"name" yaml:"name"`
		Handler StepFunc[T]   `json:"-" yaml:"-"`
		Router  RouterFunc[T] `json:"-" yaml:"-"`
		Edges   []*Edge       `json:"edges,omitempty" yaml:"edges,omitempty"`

		// Terminal marks the step as an instance end marker.
		Terminal bool `json:"terminal,omitempty" yaml:"terminal,omitempty"`

		// Fatal halts the instance when the handler fails, instead of the
		// default record-and-route behaviour.
		Fatal bool `json:"fatal,omitempty" yaml:"fatal,omitempty"`
	}
)

// NewStep creates a step with the given name and handler.
func NewStep[T any](name string, handler StepFunc[T]) *Step[T] {
	return &Step[T]{Name: name, Handler: handler}
}

// WithRouter sets the step's routing function.
func (s *Step[T]) WithRouter(router RouterFunc[T]) *Step[T] {
	s.Router = router
	return s
}

// WithEdge binds an outcome to its ordered successor list.
func (s *Step[T]) WithEdge(outcome Outcome, successors ...string) *Step[T] {
	s.Edges = append(s.Edges, &Edge{Outcome: outcome, Successors: successors})
	return s
}

// WithTerminal marks the step as a terminal marker.
func (s *Step[T]) WithTerminal() *Step[T] {
	s.Terminal = true
	return s
}

// WithFatal makes handler failures halt the instance.
func (s *Step[T]) WithFatal() *Step[T] {
	s.Fatal = true
	return s
}

// Route evaluates the step's router against the state. Steps without a
// router route unconditionally.
func (s *Step[T]) Route(st *state.State[T]) Outcome {
	if s.Router == nil {
		return Always
	}
	return s.Router(st)
}

// Successors returns the successor list bound to the outcome; the second
// return value reports whether the outcome is part of the step's edge set.
func (s *Step[T]) Successors(outcome Outcome) ([]string, bool) {
	for _, edge := range s.Edges {
		if edge.Outcome == outcome {
			return edge.Successors, true
		}
	}
	return nil, false
}

// Outcomes lists the step's declared outcomes in definition order.
func (s *Step[T]) Outcomes() []Outcome {
	out := make([]Outcome, 0, len(s.Edges))
	for _, edge := range s.Edges {
		out = append(out, edge.Outcome)
	}
	return out
}

// IsTerminal reports whether the step ends an instance: either an explicit
// terminal marker or a step with no outgoing edges.
func (s *Step[T]) IsTerminal() bool {
	return s.Terminal || len(s.Edges) == 0
}
