// Package generator abstracts the content producer generation steps call.
// Production deployments back it with a language model; the bundled template
// implementation is deterministic so graphs stay testable.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphor/graphor/model/domain"
)

// Service produces text for the payload's current shape. Failures propagate
// as step errors.
type Service interface {
	Generate(ctx context.Context, payload *domain.Payload) (string, error)
}

// Template renders deterministic documents from the payload fields.
type Template struct{}

// NewTemplate creates a template generator.
func NewTemplate() *Template {
	return &Template{}
}

// Generate renders a document for the payload kind.
func (t *Template) Generate(ctx context.Context, payload *domain.Payload) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("nil payload")
	}
	switch payload.Kind {
	case domain.KindPolicyGeneration:
		return t.policy(payload.Policy)
	case domain.KindThreatResponse:
		return t.threat(payload.Threat)
	case domain.KindComplianceValidation:
		return t.compliance(payload.Compliance)
	}
	return "", fmt.Errorf("unsupported payload kind: %v", payload.Kind)
}

func (t *Template) policy(policy *domain.PolicyGeneration) (string, error) {
	if policy == nil || policy.Topic == "" {
		return "", fmt.Errorf("policy payload has no topic")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %v Policy\n\n", policy.Topic)
	if len(policy.Outline) > 0 {
		b.WriteString("## Outline\n")
		for _, section := range policy.Outline {
			fmt.Fprintf(&b, "- %v\n", section)
		}
		b.WriteString("\n")
	}
	b.WriteString("## Requirements\n")
	for _, requirement := range policy.Requirements {
		fmt.Fprintf(&b, "- %v\n", requirement)
	}
	for topic, entries := range policy.Context {
		fmt.Fprintf(&b, "\n## %v\n", topic)
		for _, entry := range entries {
			fmt.Fprintf(&b, "- %v\n", entry)
		}
	}
	if policy.Revisions > 0 {
		fmt.Fprintf(&b, "\nRevision: %v\n", policy.Revisions)
	}
	return b.String(), nil
}

func (t *Template) threat(threat *domain.ThreatResponse) (string, error) {
	if threat == nil || threat.Indicator == "" {
		return "", fmt.Errorf("threat payload has no indicator")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Threat Report: %v\n\nRisk: %v\n", threat.Indicator, threat.Risk)
	if threat.Analysis != "" {
		fmt.Fprintf(&b, "\n## Analysis\n%v\n", threat.Analysis)
	}
	if len(threat.Actions) > 0 {
		b.WriteString("\n## Actions Taken\n")
		for _, action := range threat.Actions {
			fmt.Fprintf(&b, "- %v\n", action)
		}
	}
	return b.String(), nil
}

func (t *Template) compliance(compliance *domain.ComplianceValidation) (string, error) {
	if compliance == nil || compliance.Framework == "" {
		return "", fmt.Errorf("compliance payload has no framework")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %v Attestation\n\n", compliance.Framework)
	for _, control := range compliance.Controls {
		status := "satisfied"
		if !compliance.Passed {
			status = "pending"
		}
		fmt.Fprintf(&b, "- %v: %v\n", control, status)
	}
	return b.String(), nil
}
