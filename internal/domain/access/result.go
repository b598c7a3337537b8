package access

import (
	"time"

	"luminara/internal/domain/subscription"
)

// CheckResult is the outcome of one access check. A denial is a normal
// result, never an error: Reason is set, and depending on the denial kind
// UpgradeRequired, CurrentUsage/Limit and ResetsAt carry enough context for
// the caller to render "upgrade to X" or "try again after Y" without
// further lookups.
type CheckResult struct {
	Allowed         bool              `json:"allowed"`
	Reason          string            `json:"reason,omitempty"`
	UpgradeRequired subscription.Tier `json:"upgrade_required,omitempty"`
	CurrentUsage    *int              `json:"current_usage,omitempty"`
	Limit           *int              `json:"limit,omitempty"`
	ResetsAt        *time.Time        `json:"resets_at,omitempty"`
}

// Allow returns an allowed result.
func Allow() *CheckResult {
	return &CheckResult{Allowed: true}
}

// DenyTier returns a denial caused by an insufficient subscription tier.
func DenyTier(reason string, required subscription.Tier) *CheckResult {
	return &CheckResult{
		Allowed:         false,
		Reason:          reason,
		UpgradeRequired: required,
	}
}

// DenyUsage returns a denial caused by an exhausted usage quota.
func DenyUsage(reason string, currentUsage, limit int, resetsAt time.Time) *CheckResult {
	return &CheckResult{
		Allowed:      false,
		Reason:       reason,
		CurrentUsage: &currentUsage,
		Limit:        &limit,
		ResetsAt:     &resetsAt,
	}
}

// DenyFeature returns a denial for a tool disabled at the current tier.
// upgrade may be empty when the user is already at the top tier.
func DenyFeature(reason string, upgrade subscription.Tier) *CheckResult {
	return &CheckResult{
		Allowed:         false,
		Reason:          reason,
		UpgradeRequired: upgrade,
	}
}

// DenyParameter returns a denial for a restricted parameter value.
func DenyParameter(reason string, upgrade subscription.Tier) *CheckResult {
	return &CheckResult{
		Allowed:         false,
		Reason:          reason,
		UpgradeRequired: upgrade,
	}
}
