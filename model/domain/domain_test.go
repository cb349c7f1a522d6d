package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayload_Defaults(t *testing.T) {
	var nilPayload *Payload
	assert.Equal(t, RiskLow, nilPayload.RiskLevel())
	assert.Equal(t, ComplexitySimple, nilPayload.ComplexityLevel())
	assert.False(t, nilPayload.Validated())

	threat := NewThreatResponse("203.0.113.9", nil)
	assert.Equal(t, RiskLow, threat.RiskLevel(), "unassessed threat defaults to low")
	threat.Threat.Risk = RiskCritical
	assert.Equal(t, RiskCritical, threat.RiskLevel())

	policy := NewPolicyGeneration("access control", "least privilege")
	assert.Equal(t, ComplexitySimple, policy.ComplexityLevel(), "unassessed policy defaults to simple")
	assert.False(t, policy.Validated())
	policy.Policy.Passed = true
	assert.True(t, policy.Validated())

	compliance := NewComplianceValidation("SOC2", "CC6.1")
	assert.Equal(t, KindComplianceValidation, compliance.Kind)
	assert.False(t, compliance.Validated())
	compliance.Compliance.Passed = true
	assert.True(t, compliance.Validated())
}
