package model

import (
	"context"
	"strings"
	"testing"

	"github.com/graphor/graphor/model/graph"
	"github.com/graphor/graphor/model/state"
	"github.com/stretchr/testify/assert"
)

func noop(ctx context.Context, s *state.State[int]) error { return nil }

func TestWorkflow_Validate(t *testing.T) {
	testCases := []struct {
		description string
		workflow    func() *Workflow[int]
		expectIssue string
	}{
		{
			description: "valid linear workflow",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("linear")
				w.NewStep("a", noop).WithEdge(graph.Always, "b")
				w.NewStep("b", noop).WithEdge(graph.Always, "c")
				w.NewStep("c", noop).WithTerminal()
				return w
			},
		},
		{
			description: "no steps",
			workflow: func() *Workflow[int] {
				return NewWorkflow[int]("empty")
			},
			expectIssue: "has no steps",
		},
		{
			description: "entry does not exist",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("bad-entry").WithEntry("missing")
				w.NewStep("a", noop).WithTerminal()
				return w
			},
			expectIssue: "entry step missing does not exist",
		},
		{
			description: "duplicate step names",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("dup")
				w.NewStep("a", noop).WithTerminal()
				w.AddStep(graph.NewStep("a", noop))
				return w
			},
			expectIssue: "duplicate step name a",
		},
		{
			description: "successor does not exist",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("dangling")
				w.NewStep("a", noop).WithEdge(graph.Always, "ghost")
				return w
			},
			expectIssue: "unknown step ghost",
		},
		{
			description: "conditional outcome without router",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("routerless")
				w.NewStep("a", noop).WithEdge("passed", "b")
				w.NewStep("b", noop).WithTerminal()
				return w
			},
			expectIssue: "declares outcome passed but has no router",
		},
		{
			description: "unreachable step",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("island")
				w.NewStep("a", noop).WithTerminal()
				w.NewStep("b", noop).WithTerminal()
				return w
			},
			expectIssue: "step b is unreachable from entry",
		},
		{
			description: "no terminal reachable",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("spin")
				w.NewStep("a", noop).WithEdge(graph.Always, "b")
				w.NewStep("b", noop).WithEdge(graph.Always, "a")
				return w
			},
			expectIssue: "no terminal is reachable from step a",
		},
		{
			description: "empty successor list counts as terminal",
			workflow: func() *Workflow[int] {
				w := NewWorkflow[int]("implicit")
				w.NewStep("a", noop).
					WithRouter(func(s *state.State[int]) graph.Outcome { return "stop" }).
					WithEdge("stop").
					WithEdge("loop", "a")
				return w
			},
		},
	}

	for _, testCase := range testCases {
		issues := testCase.workflow().Validate()
		if testCase.expectIssue == "" {
			assert.Empty(t, issues, testCase.description)
			continue
		}
		if !assert.NotEmpty(t, issues, testCase.description) {
			continue
		}
		found := false
		for _, issue := range issues {
			if strings.Contains(issue.Error(), testCase.expectIssue) {
				found = true
			}
		}
		assert.True(t, found, "%v: issues %v should mention %q", testCase.description, issues, testCase.expectIssue)
	}
}

func TestWorkflow_EntryDefaultsToFirstStep(t *testing.T) {
	w := NewWorkflow[int]("defaults")
	w.NewStep("first", noop).WithEdge(graph.Always, "second")
	w.NewStep("second", noop).WithTerminal()
	assert.Equal(t, "first", w.Entry)
	assert.Empty(t, w.Validate())
}

func TestWorkflow_Ceiling(t *testing.T) {
	assert.Equal(t, DefaultMaxIterations, NewWorkflow[int]("w").Ceiling())
	assert.Equal(t, 12, NewWorkflow[int]("w").WithMaxIterations(12).Ceiling())
}
