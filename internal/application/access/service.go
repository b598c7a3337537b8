package access

import (
	"context"
	"fmt"
	"time"

	"luminara/internal/domain/access"
	"luminara/internal/domain/subscription"
	"luminara/internal/shared/biztime"
	"luminara/internal/shared/logger"
)

// CheckQuery is one access check request.
type CheckQuery struct {
	UserID   uint
	ToolName string
	Params   map[string]any
}

// ToolAvailability summarizes one tool for the availability listing.
type ToolAvailability struct {
	Name         string               `json:"name"`
	Accessible   bool                 `json:"accessible"`
	RequiredTier subscription.Tier    `json:"required_tier"`
	Restrictions []access.Restriction `json:"restrictions,omitempty"`
}

// ToolInfo describes a tool's full policy for the info endpoint.
type ToolInfo struct {
	Name            string                                  `json:"name"`
	RequiredTier    subscription.Tier                       `json:"required_tier"`
	PremiumFeatures []string                                `json:"premium_features,omitempty"`
	Restrictions    map[subscription.Tier][]access.Restriction `json:"restrictions,omitempty"`
}

// ToolAccessService is the access-control engine. A check walks three
// gates in order: tier, then the tier's restrictions (usage quotas and
// feature switches), then parameter limits. Policy denials come back as a
// CheckResult; only infrastructure failures (subscription or usage lookup)
// surface as errors, and callers must treat those as denials.
type ToolAccessService struct {
	table      *access.Table
	checkers   *access.CheckerRegistry
	resolver   TierResolver
	aggregator *UsageAggregator
	logger     logger.Interface
	now        func() time.Time
}

func NewToolAccessService(
	table *access.Table,
	checkers *access.CheckerRegistry,
	resolver TierResolver,
	aggregator *UsageAggregator,
	logger logger.Interface,
) *ToolAccessService {
	return &ToolAccessService{
		table:      table,
		checkers:   checkers,
		resolver:   resolver,
		aggregator: aggregator,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

// WithClock overrides the time source, for tests.
func (s *ToolAccessService) WithClock(now func() time.Time) *ToolAccessService {
	s.now = now
	return s
}

// CheckToolAccess decides whether the user may invoke the tool right now.
// The check is read-only and idempotent: usage is recorded by message
// persistence, never here.
func (s *ToolAccessService) CheckToolAccess(ctx context.Context, query CheckQuery) (*access.CheckResult, error) {
	cfg, registered := s.table.Get(query.ToolName)
	if !registered {
		// unregistered tools are deliberately ungated
		return access.Allow(), nil
	}

	tier, err := s.resolver.Resolve(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	if !tier.AtLeast(cfg.RequiredTier) {
		s.logger.Debugw("tool denied by tier",
			"user_id", query.UserID, "tool", query.ToolName, "tier", tier, "required", cfg.RequiredTier)
		return access.DenyTier(
			fmt.Sprintf("%s requires the %s plan", query.ToolName, cfg.RequiredTier.DisplayName()),
			cfg.RequiredTier,
		), nil
	}

	for _, restriction := range cfg.RestrictionsFor(tier) {
		result, err := s.applyRestriction(ctx, query, tier, restriction)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	return access.Allow(), nil
}

// applyRestriction evaluates one restriction. A nil result means the
// restriction passed.
func (s *ToolAccessService) applyRestriction(ctx context.Context, query CheckQuery, tier subscription.Tier, restriction access.Restriction) (*access.CheckResult, error) {
	switch restriction.Type {
	case access.RestrictionUsagePerDay:
		if restriction.Limit == subscription.Unlimited {
			return nil, nil
		}
		usage, resetsAt, err := s.aggregator.CountToolDay(ctx, query.UserID, query.ToolName, s.now())
		if err != nil {
			return nil, err
		}
		if usage >= restriction.Limit {
			s.logger.Infow("tool denied by daily quota",
				"user_id", query.UserID, "tool", query.ToolName, "usage", usage, "limit", restriction.Limit)
			return access.DenyUsage(restriction.Description, usage, restriction.Limit, resetsAt), nil
		}

	case access.RestrictionUsagePerMonth:
		if restriction.Limit == subscription.Unlimited {
			return nil, nil
		}
		usage, resetsAt, err := s.aggregator.CountToolMonth(ctx, query.UserID, query.ToolName, s.now())
		if err != nil {
			return nil, err
		}
		if usage >= restriction.Limit {
			s.logger.Infow("tool denied by monthly quota",
				"user_id", query.UserID, "tool", query.ToolName, "usage", usage, "limit", restriction.Limit)
			return access.DenyUsage(restriction.Description, usage, restriction.Limit, resetsAt), nil
		}

	case access.RestrictionFeatureDisabled:
		// no upgrade to suggest when the user already sits at the top tier
		upgrade, ok := tier.Next()
		if !ok {
			upgrade = ""
		}
		return access.DenyFeature(restriction.Description, upgrade), nil

	case access.RestrictionParameterLimited:
		checker, ok := s.checkers.Lookup(query.ToolName)
		if !ok {
			s.logger.Warnw("parameter limited tool has no checker, skipping",
				"tool", query.ToolName, "mode", restriction.Mode)
			return nil, nil
		}
		if violation := checker(restriction.Mode, query.Params); violation != nil {
			return access.DenyParameter(violation.Reason, violation.UpgradeTier), nil
		}
	}

	return nil, nil
}

// GetAvailableTools lists every registered tool with its accessibility for
// the user's tier and the restrictions that would apply.
func (s *ToolAccessService) GetAvailableTools(ctx context.Context, userID uint) ([]ToolAvailability, error) {
	tier, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	tools := make([]ToolAvailability, 0, s.table.Len())
	for _, name := range s.table.Names() {
		cfg, _ := s.table.Get(name)
		tools = append(tools, ToolAvailability{
			Name:         name,
			Accessible:   tier.AtLeast(cfg.RequiredTier),
			RequiredTier: cfg.RequiredTier,
			Restrictions: cfg.RestrictionsFor(tier),
		})
	}

	return tools, nil
}

// GetToolInfo returns the full policy for one tool, or nil when the tool is
// unregistered.
func (s *ToolAccessService) GetToolInfo(toolName string) *ToolInfo {
	cfg, ok := s.table.Get(toolName)
	if !ok {
		return nil
	}
	return &ToolInfo{
		Name:            cfg.Name,
		RequiredTier:    cfg.RequiredTier,
		PremiumFeatures: cfg.PremiumFeatures,
		Restrictions:    cfg.Restrictions,
	}
}
