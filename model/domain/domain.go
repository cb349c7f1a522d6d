// Package domain defines the typed payloads carried by the security-content
// workflows. The payload is a tagged union over the workflow kinds so that
// routing functions can match on a concrete shape instead of probing
// dynamically-typed bags.
package domain

// Kind discriminates the payload union.
type Kind string

const (
	KindPolicyGeneration     Kind = "policy_generation"
	KindThreatResponse       Kind = "threat_response"
	KindComplianceValidation Kind = "compliance_validation"
)

// RiskLevel classifies a threat indicator.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Complexity classifies a generation request.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityComplex Complexity = "complex"
)

// Payload is the tagged union threaded through workflow state. Exactly one
// of the shape pointers is set, matching Kind.
type Payload struct {
	Kind       Kind                  `json:"kind" yaml:"kind"`
	Policy     *PolicyGeneration     `json:"policy,omitempty" yaml:"policy,omitempty"`
	Threat     *ThreatResponse       `json:"threat,omitempty" yaml:"threat,omitempty"`
	Compliance *ComplianceValidation `json:"compliance,omitempty" yaml:"compliance,omitempty"`
}

// PolicyGeneration carries the state of one policy-document generation run.
type PolicyGeneration struct {
	Topic        string              `json:"topic" yaml:"topic"`
	Requirements []string            `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Context      map[string][]string `json:"context,omitempty" yaml:"context,omitempty"`
	Complexity   Complexity          `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Outline      []string            `json:"outline,omitempty" yaml:"outline,omitempty"`
	Draft        string              `json:"draft,omitempty" yaml:"draft,omitempty"`
	Passed       bool                `json:"passed" yaml:"passed"`
	Issues       []string            `json:"issues,omitempty" yaml:"issues,omitempty"`
	Revisions    int                 `json:"revisions" yaml:"revisions"`
	Final        string              `json:"final,omitempty" yaml:"final,omitempty"`
}

// ThreatResponse carries the state of one threat-analysis run.
type ThreatResponse struct {
	Indicator string            `json:"indicator" yaml:"indicator"`
	Details   map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
	Risk      RiskLevel         `json:"risk,omitempty" yaml:"risk,omitempty"`
	Analysis  string            `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Actions   []string          `json:"actions,omitempty" yaml:"actions,omitempty"`
	Report    string            `json:"report,omitempty" yaml:"report,omitempty"`
}

// ComplianceValidation carries the state of one compliance-check run.
type ComplianceValidation struct {
	Framework   string              `json:"framework" yaml:"framework"`
	Controls    []string            `json:"controls,omitempty" yaml:"controls,omitempty"`
	Evidence    map[string][]string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Passed      bool                `json:"passed" yaml:"passed"`
	Issues      []string            `json:"issues,omitempty" yaml:"issues,omitempty"`
	Remediation []string            `json:"remediation,omitempty" yaml:"remediation,omitempty"`
	Attestation string              `json:"attestation,omitempty" yaml:"attestation,omitempty"`
}

// NewPolicyGeneration creates a policy-generation payload.
func NewPolicyGeneration(topic string, requirements ...string) *Payload {
	return &Payload{
		Kind:   KindPolicyGeneration,
		Policy: &PolicyGeneration{Topic: topic, Requirements: requirements},
	}
}

// NewThreatResponse creates a threat-response payload.
func NewThreatResponse(indicator string, details map[string]string) *Payload {
	return &Payload{
		Kind:   KindThreatResponse,
		Threat: &ThreatResponse{Indicator: indicator, Details: details},
	}
}

// NewComplianceValidation creates a compliance-validation payload.
func NewComplianceValidation(framework string, controls ...string) *Payload {
	return &Payload{
		Kind:       KindComplianceValidation,
		Compliance: &ComplianceValidation{Framework: framework, Controls: controls},
	}
}

// RiskLevel returns the assessed risk, defaulting to low when the threat
// shape is absent or not yet assessed. Routers rely on this default so that
// a step that failed before assessing risk still routes.
func (p *Payload) RiskLevel() RiskLevel {
	if p == nil || p.Threat == nil || p.Threat.Risk == "" {
		return RiskLow
	}
	return p.Threat.Risk
}

// ComplexityLevel returns the assessed complexity, defaulting to simple.
func (p *Payload) ComplexityLevel() Complexity {
	if p == nil || p.Policy == nil || p.Policy.Complexity == "" {
		return ComplexitySimple
	}
	return p.Policy.Complexity
}

// Validated reports whether the payload's validation-relevant shape passed.
func (p *Payload) Validated() bool {
	if p == nil {
		return false
	}
	switch p.Kind {
	case KindPolicyGeneration:
		return p.Policy != nil && p.Policy.Passed
	case KindComplianceValidation:
		return p.Compliance != nil && p.Compliance.Passed
	}
	return false
}
