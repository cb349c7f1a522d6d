// Package validator abstracts the quality gate refinement loops route on.
package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphor/graphor/model/domain"
)

type (
	// Report is the outcome of one validation pass.
	Report struct {
		Passed bool     `json:"passed"`
		Issues []string `json:"issues,omitempty"`
	}

	// Service judges the payload's generated content. Implementations range
	// from rule checks to model-based review; failures propagate as step
	// errors.
	Service interface {
		Validate(ctx context.Context, payload *domain.Payload) (*Report, error)
	}

	// Rules is a deterministic validator: a draft passes when it is long
	// enough and mentions every requirement or control.
	Rules struct {
		// MinLength is the minimum acceptable draft length in bytes.
		MinLength int
	}
)

// NewRules creates a rule-based validator.
func NewRules() *Rules {
	return &Rules{MinLength: 40}
}

// Validate applies the rules to the payload's draft content.
func (r *Rules) Validate(ctx context.Context, payload *domain.Payload) (*Report, error) {
	if payload == nil {
		return nil, fmt.Errorf("nil payload")
	}
	switch payload.Kind {
	case domain.KindPolicyGeneration:
		if payload.Policy == nil {
			return nil, fmt.Errorf("policy payload is empty")
		}
		return r.check(payload.Policy.Draft, payload.Policy.Requirements), nil
	case domain.KindComplianceValidation:
		if payload.Compliance == nil {
			return nil, fmt.Errorf("compliance payload is empty")
		}
		return r.checkEvidence(payload.Compliance), nil
	}
	return nil, fmt.Errorf("unsupported payload kind: %v", payload.Kind)
}

func (r *Rules) check(draft string, requirements []string) *Report {
	ret := &Report{}
	if len(draft) < r.MinLength {
		ret.Issues = append(ret.Issues, fmt.Sprintf("draft too short: %v bytes", len(draft)))
	}
	lower := strings.ToLower(draft)
	for _, requirement := range requirements {
		if !strings.Contains(lower, strings.ToLower(requirement)) {
			ret.Issues = append(ret.Issues, fmt.Sprintf("requirement not covered: %v", requirement))
		}
	}
	ret.Passed = len(ret.Issues) == 0
	return ret
}

func (r *Rules) checkEvidence(compliance *domain.ComplianceValidation) *Report {
	ret := &Report{}
	for _, control := range compliance.Controls {
		if len(compliance.Evidence[control]) == 0 {
			ret.Issues = append(ret.Issues, fmt.Sprintf("no evidence for control: %v", control))
		}
	}
	ret.Passed = len(ret.Issues) == 0
	return ret
}
