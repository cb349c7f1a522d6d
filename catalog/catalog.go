// Package catalog defines the built-in security-content workflows: policy
// generation with a bounded refinement loop, risk-routed threat response and
// compliance validation. All three run over *domain.Payload and delegate
// content work to the collaborator services.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/domain"
	"github.com/graphor/graphor/model/graph"
	"github.com/graphor/graphor/model/state"
	"github.com/graphor/graphor/runtime/orchestrator"
	"github.com/graphor/graphor/service/generator"
	"github.com/graphor/graphor/service/knowledge"
	"github.com/graphor/graphor/service/validator"
)

// Workflow names registered by this catalog.
const (
	PolicyGeneration     = "policy_generation"
	ThreatResponse       = "threat_response"
	ComplianceValidation = "compliance_validation"
)

// Routing outcomes used by the catalog's routers.
const (
	outcomePassed  graph.Outcome = "passed"
	outcomeFailed  graph.Outcome = "failed"
	outcomeSimple  graph.Outcome = "simple"
	outcomeComplex graph.Outcome = "complex"
)

// Services bundles the collaborators the catalog workflows depend on.
type Services struct {
	Knowledge knowledge.Service
	Generator generator.Service
	Validator validator.Service
}

// Register adds all catalog workflows to the orchestrator.
func Register(orch *orchestrator.Service[*domain.Payload], deps Services) error {
	for _, workflow := range []*model.Workflow[*domain.Payload]{
		NewPolicyGeneration(deps),
		NewThreatResponse(deps),
		NewComplianceValidation(deps),
	} {
		if err := orch.Register(workflow); err != nil {
			return err
		}
	}
	return nil
}

// NewPolicyGeneration builds the policy-generation graph: gather context,
// assess complexity, draft (with an outline first for complex topics),
// validate and either finalize or loop through revision. The raised iteration
// ceiling bounds the refinement loop.
func NewPolicyGeneration(deps Services) *model.Workflow[*domain.Payload] {
	workflow := model.NewWorkflow[*domain.Payload](PolicyGeneration).
		WithDescription("Generates a security policy document with bounded refinement").
		WithVersion("1.0").
		WithMaxIterations(12)

	workflow.NewStep("gather_context", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		policy, err := policyShape(s.Data)
		if err != nil {
			return err
		}
		found, err := deps.Knowledge.Context(ctx, "policy", map[string]string{"topic": policy.Topic})
		if err != nil {
			return err
		}
		policy.Context = found
		return nil
	}).WithEdge(graph.Always, "assess_complexity")

	workflow.NewStep("assess_complexity", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		policy, err := policyShape(s.Data)
		if err != nil {
			return err
		}
		policy.Complexity = domain.ComplexitySimple
		if len(policy.Requirements) > 3 {
			policy.Complexity = domain.ComplexityComplex
		}
		return nil
	}).WithRouter(func(s *state.State[*domain.Payload]) graph.Outcome {
		return graph.Outcome(s.Data.ComplexityLevel())
	}).
		WithEdge(outcomeSimple, "draft").
		WithEdge(outcomeComplex, "outline", "draft")

	workflow.NewStep("outline", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		policy, err := policyShape(s.Data)
		if err != nil {
			return err
		}
		policy.Outline = []string{"Purpose", "Scope"}
		policy.Outline = append(policy.Outline, policy.Requirements...)
		policy.Outline = append(policy.Outline, "Enforcement")
		return nil
	})

	workflow.NewStep("draft", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		policy, err := policyShape(s.Data)
		if err != nil {
			return err
		}
		text, err := deps.Generator.Generate(ctx, s.Data)
		if err != nil {
			return err
		}
		policy.Draft = text
		return nil
	}).WithFatal().WithEdge(graph.Always, "validate")

	workflow.NewStep("validate", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		policy, err := policyShape(s.Data)
		if err != nil {
			return err
		}
		report, err := deps.Validator.Validate(ctx, s.Data)
		if err != nil {
			return err
		}
		policy.Passed = report.Passed
		policy.Issues = report.Issues
		return nil
	}).WithRouter(func(s *state.State[*domain.Payload]) graph.Outcome {
		if s.Data.Validated() {
			return outcomePassed
		}
		return outcomeFailed
	}).
		WithEdge(outcomePassed, "finalize").
		WithEdge(outcomeFailed, "revise")

	workflow.NewStep("revise", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		policy, err := policyShape(s.Data)
		if err != nil {
			return err
		}
		policy.Revisions++
		var addendum strings.Builder
		addendum.WriteString("\n## Addendum\n")
		for _, issue := range policy.Issues {
			fmt.Fprintf(&addendum, "- resolved: %v\n", issue)
		}
		for _, requirement := range policy.Requirements {
			fmt.Fprintf(&addendum, "- %v\n", requirement)
		}
		policy.Draft += addendum.String()
		return nil
	}).WithEdge(graph.Always, "validate")

	workflow.NewStep("finalize", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		policy, err := policyShape(s.Data)
		if err != nil {
			return err
		}
		policy.Final = policy.Draft
		return nil
	}).WithTerminal()

	return workflow.WithEntry("gather_context")
}

// NewThreatResponse builds the threat-response graph. Triage assesses risk
// and routes to a risk-proportional pipeline; every path ends at the report
// step.
func NewThreatResponse(deps Services) *model.Workflow[*domain.Payload] {
	workflow := model.NewWorkflow[*domain.Payload](ThreatResponse).
		WithDescription("Routes a threat indicator through a risk-proportional response").
		WithVersion("1.0").
		WithMaxIterations(8)

	workflow.NewStep("triage", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		threat, err := threatShape(s.Data)
		if err != nil {
			return err
		}
		threat.Risk = riskFromSeverity(threat.Details["severity"])
		return nil
	}).WithRouter(func(s *state.State[*domain.Payload]) graph.Outcome {
		return graph.Outcome(s.Data.RiskLevel())
	}).
		WithEdge(graph.Outcome(domain.RiskLow), "report").
		WithEdge(graph.Outcome(domain.RiskMedium), "analyze", "report").
		WithEdge(graph.Outcome(domain.RiskHigh), "analyze", "contain", "report").
		WithEdge(graph.Outcome(domain.RiskCritical), "analyze", "contain", "escalate", "report")

	workflow.NewStep("analyze", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		threat, err := threatShape(s.Data)
		if err != nil {
			return err
		}
		threat.Analysis = fmt.Sprintf("indicator %v assessed at %v risk", threat.Indicator, threat.Risk)
		return nil
	})

	workflow.NewStep("contain", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		threat, err := threatShape(s.Data)
		if err != nil {
			return err
		}
		threat.Actions = append(threat.Actions, "isolate affected hosts")
		return nil
	})

	workflow.NewStep("escalate", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		threat, err := threatShape(s.Data)
		if err != nil {
			return err
		}
		threat.Actions = append(threat.Actions, "page on-call incident commander")
		return nil
	})

	workflow.NewStep("report", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		threat, err := threatShape(s.Data)
		if err != nil {
			return err
		}
		text, err := deps.Generator.Generate(ctx, s.Data)
		if err != nil {
			return err
		}
		threat.Report = text
		return nil
	}).WithTerminal()

	return workflow.WithEntry("triage")
}

// NewComplianceValidation builds the compliance graph: collect evidence,
// assess it against the framework's controls and either attest or advise on
// remediation.
func NewComplianceValidation(deps Services) *model.Workflow[*domain.Payload] {
	workflow := model.NewWorkflow[*domain.Payload](ComplianceValidation).
		WithDescription("Validates control evidence and produces an attestation or remediation plan").
		WithVersion("1.0")

	workflow.NewStep("collect_evidence", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		compliance, err := complianceShape(s.Data)
		if err != nil {
			return err
		}
		found, err := deps.Knowledge.Context(ctx, "compliance", map[string]string{"topic": compliance.Framework})
		if err != nil {
			return err
		}
		if compliance.Evidence == nil {
			compliance.Evidence = map[string][]string{}
		}
		for _, control := range compliance.Controls {
			for _, entries := range found {
				for _, entry := range entries {
					if strings.Contains(entry, control) {
						compliance.Evidence[control] = append(compliance.Evidence[control], entry)
					}
				}
			}
		}
		return nil
	}).WithEdge(graph.Always, "assess")

	workflow.NewStep("assess", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		compliance, err := complianceShape(s.Data)
		if err != nil {
			return err
		}
		report, err := deps.Validator.Validate(ctx, s.Data)
		if err != nil {
			return err
		}
		compliance.Passed = report.Passed
		compliance.Issues = report.Issues
		return nil
	}).WithRouter(func(s *state.State[*domain.Payload]) graph.Outcome {
		if s.Data.Validated() {
			return outcomePassed
		}
		return outcomeFailed
	}).
		WithEdge(outcomePassed, "attest").
		WithEdge(outcomeFailed, "advise")

	workflow.NewStep("attest", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		compliance, err := complianceShape(s.Data)
		if err != nil {
			return err
		}
		text, err := deps.Generator.Generate(ctx, s.Data)
		if err != nil {
			return err
		}
		compliance.Attestation = text
		return nil
	}).WithTerminal()

	workflow.NewStep("advise", func(ctx context.Context, s *state.State[*domain.Payload]) error {
		compliance, err := complianceShape(s.Data)
		if err != nil {
			return err
		}
		for _, issue := range compliance.Issues {
			compliance.Remediation = append(compliance.Remediation, "remediate: "+issue)
		}
		return nil
	}).WithTerminal()

	return workflow.WithEntry("collect_evidence")
}

func riskFromSeverity(severity string) domain.RiskLevel {
	switch strings.ToLower(severity) {
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	}
	return domain.RiskLow
}

func policyShape(payload *domain.Payload) (*domain.PolicyGeneration, error) {
	if payload == nil || payload.Policy == nil {
		return nil, fmt.Errorf("payload carries no policy shape")
	}
	return payload.Policy, nil
}

func threatShape(payload *domain.Payload) (*domain.ThreatResponse, error) {
	if payload == nil || payload.Threat == nil {
		return nil, fmt.Errorf("payload carries no threat shape")
	}
	return payload.Threat, nil
}

func complianceShape(payload *domain.Payload) (*domain.ComplianceValidation, error) {
	if payload == nil || payload.Compliance == nil {
		return nil, fmt.Errorf("payload carries no compliance shape")
	}
	return payload.Compliance, nil
}
