// Package access defines the tool access-control policy model: which tools
// exist, which subscription tier each requires, and the per-tier restrictions
// (usage quotas, disabled features, parameter limitations) applied on top.
package access

import (
	"fmt"

	"luminara/internal/domain/subscription"
)

// RestrictionType discriminates the restriction variants.
type RestrictionType string

const (
	// RestrictionUsagePerDay caps invocations within the business-timezone
	// calendar day.
	RestrictionUsagePerDay RestrictionType = "usage_per_day"
	// RestrictionUsagePerMonth caps invocations within the business-timezone
	// calendar month.
	RestrictionUsagePerMonth RestrictionType = "usage_per_month"
	// RestrictionFeatureDisabled turns the tool off entirely at this tier.
	RestrictionFeatureDisabled RestrictionType = "feature_disabled"
	// RestrictionParameterLimited restricts which parameter values the tool
	// accepts; the Mode string is interpreted by the tool's parameter checker.
	RestrictionParameterLimited RestrictionType = "parameter_limited"
)

// Restriction is one tier-specific rule limiting a tool. Limit is only
// meaningful for the usage variants; Mode only for parameter limitation.
// Description is the human-readable reason surfaced to the caller on denial.
type Restriction struct {
	Type        RestrictionType `json:"type" yaml:"type"`
	Limit       int             `json:"limit,omitempty" yaml:"limit,omitempty"`
	Mode        string          `json:"mode,omitempty" yaml:"mode,omitempty"`
	Description string          `json:"description" yaml:"description"`
}

// Validate checks internal consistency of the restriction.
func (r Restriction) Validate() error {
	switch r.Type {
	case RestrictionUsagePerDay, RestrictionUsagePerMonth:
		if r.Limit == 0 || r.Limit < subscription.Unlimited {
			return fmt.Errorf("%s restriction requires a positive limit or the unlimited sentinel, got %d", r.Type, r.Limit)
		}
	case RestrictionFeatureDisabled:
		// nothing beyond the type itself
	case RestrictionParameterLimited:
		if r.Mode == "" {
			return fmt.Errorf("parameter_limited restriction requires a mode")
		}
	default:
		return fmt.Errorf("unknown restriction type: %q", r.Type)
	}
	if r.Description == "" {
		return fmt.Errorf("%s restriction requires a description", r.Type)
	}
	return nil
}

// UsagePerDay builds a daily usage cap restriction.
func UsagePerDay(limit int, description string) Restriction {
	return Restriction{Type: RestrictionUsagePerDay, Limit: limit, Description: description}
}

// UsagePerMonth builds a monthly usage cap restriction.
func UsagePerMonth(limit int, description string) Restriction {
	return Restriction{Type: RestrictionUsagePerMonth, Limit: limit, Description: description}
}

// FeatureDisabled builds a disabled-feature restriction.
func FeatureDisabled(description string) Restriction {
	return Restriction{Type: RestrictionFeatureDisabled, Description: description}
}

// ParameterLimited builds a parameter limitation restriction.
func ParameterLimited(mode, description string) Restriction {
	return Restriction{Type: RestrictionParameterLimited, Mode: mode, Description: description}
}
