package catalog

import (
	"context"
	"testing"

	"github.com/graphor/graphor/model/domain"
	"github.com/graphor/graphor/runtime/execution"
	"github.com/graphor/graphor/runtime/orchestrator"
	"github.com/graphor/graphor/service/generator"
	"github.com/graphor/graphor/service/knowledge"
	"github.com/graphor/graphor/service/validator"
	"github.com/stretchr/testify/assert"
)

func newOrchestrator(t *testing.T) *orchestrator.Service[*domain.Payload] {
	corpus := knowledge.NewMemory().
		Add("policy", "access control", "least privilege is mandatory", "quarterly access reviews").
		Add("compliance", "SOC2", "CC6.1 access is provisioned via tickets", "CC6.2 access is reviewed quarterly")

	orch := orchestrator.New[*domain.Payload]()
	err := Register(orch, Services{
		Knowledge: corpus,
		Generator: generator.NewTemplate(),
		Validator: validator.NewRules(),
	})
	assert.Nil(t, err)
	return orch
}

func TestPolicyGeneration_Simple(t *testing.T) {
	orch := newOrchestrator(t)
	payload := domain.NewPolicyGeneration("access control", "least privilege", "access reviews")

	record, err := orch.Start(context.Background(), PolicyGeneration, payload)
	assert.Nil(t, err)
	assert.Equal(t, execution.StatusCompleted, record.Status)
	assert.Equal(t, "finalize", record.TerminalStep)

	policy := record.State.Data.Policy
	assert.Equal(t, domain.ComplexitySimple, policy.Complexity)
	assert.Empty(t, policy.Outline, "simple topics skip the outline step")
	assert.True(t, policy.Passed)
	assert.NotEmpty(t, policy.Final)
	assert.Contains(t, policy.Final, "least privilege")
}

func TestPolicyGeneration_ComplexProducesOutline(t *testing.T) {
	orch := newOrchestrator(t)
	payload := domain.NewPolicyGeneration("access control",
		"least privilege", "access reviews", "mfa enforcement", "joiner-leaver process")

	record, err := orch.Start(context.Background(), PolicyGeneration, payload)
	assert.Nil(t, err)
	assert.Equal(t, execution.StatusCompleted, record.Status)

	policy := record.State.Data.Policy
	assert.Equal(t, domain.ComplexityComplex, policy.Complexity)
	assert.NotEmpty(t, policy.Outline)
	assert.True(t, policy.Passed)
}

func TestPolicyGeneration_RefinementLoopIsBounded(t *testing.T) {
	corpus := knowledge.NewMemory().Add("policy", "encryption", "AES-256 at rest")
	orch := orchestrator.New[*domain.Payload]()
	// A validator that never passes forces the revise loop to its ceiling.
	err := Register(orch, Services{
		Knowledge: corpus,
		Generator: generator.NewTemplate(),
		Validator: &rejectAll{},
	})
	assert.Nil(t, err)

	payload := domain.NewPolicyGeneration("encryption", "key rotation")
	record, runErr := orch.Start(context.Background(), PolicyGeneration, payload)
	assert.NotNil(t, runErr)
	assert.Equal(t, execution.StatusFailed, record.Status)
	assert.Contains(t, record.Error, "max iterations")
	assert.True(t, record.State.Data.Policy.Revisions > 0)
}

type rejectAll struct{}

func (r *rejectAll) Validate(ctx context.Context, payload *domain.Payload) (*validator.Report, error) {
	return &validator.Report{Passed: false, Issues: []string{"not good enough"}}, nil
}

func TestThreatResponse_RiskRouting(t *testing.T) {
	testCases := []struct {
		severity      string
		expectRisk    domain.RiskLevel
		expectActions int
		expectAnalyze bool
	}{
		{severity: "", expectRisk: domain.RiskLow},
		{severity: "medium", expectRisk: domain.RiskMedium, expectAnalyze: true},
		{severity: "high", expectRisk: domain.RiskHigh, expectActions: 1, expectAnalyze: true},
		{severity: "critical", expectRisk: domain.RiskCritical, expectActions: 2, expectAnalyze: true},
	}
	orch := newOrchestrator(t)
	for _, testCase := range testCases {
		payload := domain.NewThreatResponse("198.51.100.7", map[string]string{"severity": testCase.severity})
		record, err := orch.Start(context.Background(), ThreatResponse, payload)
		assert.Nil(t, err, testCase.severity)
		assert.Equal(t, execution.StatusCompleted, record.Status, testCase.severity)
		assert.Equal(t, "report", record.TerminalStep, testCase.severity)

		threat := record.State.Data.Threat
		assert.Equal(t, testCase.expectRisk, threat.Risk, testCase.severity)
		assert.Equal(t, testCase.expectActions, len(threat.Actions), testCase.severity)
		assert.Equal(t, testCase.expectAnalyze, threat.Analysis != "", testCase.severity)
		assert.NotEmpty(t, threat.Report, testCase.severity)
	}
}

func TestComplianceValidation(t *testing.T) {
	orch := newOrchestrator(t)

	passing := domain.NewComplianceValidation("SOC2", "CC6.1", "CC6.2")
	record, err := orch.Start(context.Background(), ComplianceValidation, passing)
	assert.Nil(t, err)
	assert.Equal(t, "attest", record.TerminalStep)
	compliance := record.State.Data.Compliance
	assert.True(t, compliance.Passed)
	assert.NotEmpty(t, compliance.Attestation)
	assert.Empty(t, compliance.Remediation)

	failing := domain.NewComplianceValidation("SOC2", "CC6.1", "CC9.9")
	record, err = orch.Start(context.Background(), ComplianceValidation, failing)
	assert.Nil(t, err)
	assert.Equal(t, "advise", record.TerminalStep)
	compliance = record.State.Data.Compliance
	assert.False(t, compliance.Passed)
	assert.NotEmpty(t, compliance.Remediation)
	assert.Empty(t, compliance.Attestation)
}

func TestCatalog_WorkflowsValidate(t *testing.T) {
	deps := Services{
		Knowledge: knowledge.NewMemory(),
		Generator: generator.NewTemplate(),
		Validator: validator.NewRules(),
	}
	assert.Empty(t, NewPolicyGeneration(deps).Validate())
	assert.Empty(t, NewThreatResponse(deps).Validate())
	assert.Empty(t, NewComplianceValidation(deps).Validate())
}
