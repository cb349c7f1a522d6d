package execution

import (
	"errors"
	"fmt"

	"github.com/graphor/graphor/model/graph"
)

// ErrCancelled indicates an instance was cancelled before reaching a
// terminal step.
var ErrCancelled = errors.New("execution cancelled")

// UnknownWorkflowError indicates a start request referenced a workflow name
// that was never registered.
type UnknownWorkflowError struct {
	Name string
}

func (e *UnknownWorkflowError) Error() string {
	return fmt.Sprintf("unknown workflow: %v", e.Name)
}

// InvalidWorkflowError indicates a workflow failed structural validation at
// registration.
type InvalidWorkflowError struct {
	Name   string
	Issues []error
}

func (e *InvalidWorkflowError) Error() string {
	return fmt.Sprintf("invalid workflow %v: %v issue(s), first: %v", e.Name, len(e.Issues), e.Issues[0])
}

// UnroutableError indicates a router returned an outcome the step declares
// no edge for. This is a definition bug and fails the instance.
type UnroutableError struct {
	Step    string
	Outcome graph.Outcome
}

func (e *UnroutableError) Error() string {
	return fmt.Sprintf("step %v has no edge for outcome %v", e.Step, e.Outcome)
}

// MaxIterationsError indicates an instance hit its step execution ceiling
// before reaching a terminal step.
type MaxIterationsError struct {
	Limit int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("max iterations reached: %v", e.Limit)
}

// FatalStepError wraps an error returned by a step marked fatal.
type FatalStepError struct {
	Step string
	Err  error
}

func (e *FatalStepError) Error() string {
	return fmt.Sprintf("fatal step %v: %v", e.Step, e.Err)
}

func (e *FatalStepError) Unwrap() error {
	return e.Err
}
