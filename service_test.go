package graphor

import (
	"context"
	"embed"
	"testing"

	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/graph"
	"github.com/graphor/graphor/model/state"
	"github.com/graphor/graphor/runtime/execution"
	"github.com/graphor/graphor/service/dao/definition"
	"github.com/stretchr/testify/assert"
	_ "github.com/viant/afs/embed"
)

//go:embed testdata/*
var embedFS embed.FS

type review struct {
	draft    string
	passed   bool
	attempts int
}

func newTestService() *Service[*review] {
	bindings := definition.NewBindings[*review]().
		RegisterHandler("review.draft", func(ctx context.Context, s *state.State[*review]) error {
			s.Data.draft = "initial draft"
			return nil
		}).
		RegisterHandler("review.validate", func(ctx context.Context, s *state.State[*review]) error {
			s.Data.passed = s.Data.attempts >= 1
			return nil
		}).
		RegisterHandler("review.revise", func(ctx context.Context, s *state.State[*review]) error {
			s.Data.attempts++
			s.Data.draft += " revised"
			return nil
		}).
		RegisterHandler("review.finalize", func(ctx context.Context, s *state.State[*review]) error {
			return nil
		}).
		RegisterRouter("review.passed", func(s *state.State[*review]) graph.Outcome {
			if s.Data.passed {
				return "passed"
			}
			return "failed"
		})
	return New[*review](WithBindings[*review](bindings), WithFsOptions[*review](&embedFS))
}

func TestService_LoadAndRegister(t *testing.T) {
	service := newTestService()
	workflow, err := service.LoadAndRegister(context.Background(), "embed:///testdata/review.yaml")
	assert.Nil(t, err)
	if !assert.NotNil(t, workflow) {
		return
	}
	assert.Equal(t, "policy_review", workflow.Name)
	assert.Equal(t, []string{"policy_review"}, service.Orchestrator().Workflows())

	record, err := service.Start(context.Background(), "policy_review", &review{})
	assert.Nil(t, err)
	assert.Equal(t, execution.StatusCompleted, record.Status)
	assert.Equal(t, "finalize", record.TerminalStep)
	assert.Equal(t, 1, record.State.Data.attempts, "one revision pass expected")

	minSections, ok := record.State.ParamInt("minSections")
	assert.True(t, ok, "typed init parameter should convert to int")
	assert.Equal(t, 3, minSections)

	stats := service.Statistics()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.Equal(t, 1, len(service.History("", 0)))
}

func serviceBlockingWorkflow(release <-chan struct{}) *model.Workflow[*review] {
	workflow := model.NewWorkflow[*review]("blocking")
	workflow.NewStep("wait", func(ctx context.Context, s *state.State[*review]) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return ctx.Err()
	}).WithTerminal()
	return workflow
}

func TestService_SubmitAndCancel(t *testing.T) {
	service := newTestService()
	release := make(chan struct{})
	workflow := serviceBlockingWorkflow(release)
	assert.Nil(t, service.Register(workflow))

	id, wait, err := service.Submit(context.Background(), "blocking", &review{})
	assert.Nil(t, err)

	active, err := service.Active(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(active))

	assert.True(t, service.Cancel(context.Background(), id))
	record, _ := wait(context.Background())
	if assert.NotNil(t, record) {
		assert.Equal(t, execution.StatusCancelled, record.Status)
	}
	close(release)
}
