package definition

import (
	"context"
	"embed"
	"testing"

	"github.com/graphor/graphor/model/graph"
	"github.com/graphor/graphor/model/state"
	"github.com/stretchr/testify/assert"
	_ "github.com/viant/afs/embed"
)

//go:embed testdata/*
var testFS embed.FS

type draft struct {
	text     string
	passed   bool
	attempts int
}

func testBindings() *Bindings[*draft] {
	return NewBindings[*draft]().
		RegisterHandler("policy.draft", func(ctx context.Context, s *state.State[*draft]) error {
			s.Data.text = "draft"
			return nil
		}).
		RegisterHandler("policy.validate", func(ctx context.Context, s *state.State[*draft]) error {
			s.Data.passed = s.Data.attempts > 0
			return nil
		}).
		RegisterHandler("policy.revise", func(ctx context.Context, s *state.State[*draft]) error {
			s.Data.attempts++
			return nil
		}).
		RegisterHandler("policy.finalize", func(ctx context.Context, s *state.State[*draft]) error {
			return nil
		}).
		RegisterRouter("policy.passed", func(s *state.State[*draft]) graph.Outcome {
			if s.Data.passed {
				return "passed"
			}
			return "failed"
		})
}

func TestService_Load(t *testing.T) {
	service := New[*draft]()
	workflow, err := service.Load(context.Background(), "embed:///testdata/policy.yaml", testBindings(), &testFS)
	assert.Nil(t, err)
	if !assert.NotNil(t, workflow) {
		return
	}
	assert.Equal(t, "policy_review", workflow.Name)
	assert.Equal(t, "draft", workflow.Entry)
	assert.Equal(t, 9, workflow.MaxIterations)
	assert.Equal(t, 4, len(workflow.Steps))

	minSections, ok := workflow.Init.Get("minSections")
	if assert.True(t, ok) {
		assert.Equal(t, "int", minSections.DataType)
	}

	draftStep := workflow.Step("draft")
	if assert.NotNil(t, draftStep) {
		assert.True(t, draftStep.Fatal)
		successors, ok := draftStep.Successors(graph.Always)
		assert.True(t, ok)
		assert.Equal(t, []string{"validate"}, successors)
	}
	validate := workflow.Step("validate")
	if assert.NotNil(t, validate) {
		assert.NotNil(t, validate.Router)
		assert.Equal(t, []graph.Outcome{"passed", "failed"}, validate.Outcomes())
	}
	finalize := workflow.Step("finalize")
	if assert.NotNil(t, finalize) {
		assert.True(t, finalize.Terminal)
	}
}

func TestService_Decode_Errors(t *testing.T) {
	testCases := []struct {
		description string
		document    string
		bindings    *Bindings[*draft]
		expect      string
	}{
		{
			description: "malformed yaml",
			document:    "steps: [",
			bindings:    testBindings(),
			expect:      "failed to parse",
		},
		{
			description: "missing name",
			document:    "steps:\n  - name: a\n    handler: policy.draft\n",
			bindings:    testBindings(),
			expect:      "no name",
		},
		{
			description: "unbound handler",
			document:    "name: w\nsteps:\n  - name: a\n    handler: nope\n",
			bindings:    testBindings(),
			expect:      "unbound handler nope",
		},
		{
			description: "unbound router",
			document:    "name: w\nsteps:\n  - name: a\n    handler: policy.draft\n    router: nope\n",
			bindings:    testBindings(),
			expect:      "unbound router nope",
		},
		{
			description: "invalid graph",
			document:    "name: w\nsteps:\n  - name: a\n    handler: policy.draft\n    edges:\n      - outcome: always\n        successors: [ghost]\n",
			bindings:    testBindings(),
			expect:      "is invalid",
		},
	}
	service := New[*draft]()
	for _, testCase := range testCases {
		_, err := service.Decode([]byte(testCase.document), testCase.bindings)
		if assert.NotNil(t, err, testCase.description) {
			assert.Contains(t, err.Error(), testCase.expect, testCase.description)
		}
	}
}
