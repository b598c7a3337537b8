package access

import (
	"context"
	"time"

	"luminara/internal/domain/access"
	"luminara/internal/domain/subscription"
	"luminara/internal/shared/logger"
)

// QuotaStat is the usage of one quota window. Limit is -1 for unlimited,
// and Percent is always 0 in that case.
type QuotaStat struct {
	Used     int        `json:"used"`
	Limit    int        `json:"limit"`
	Percent  float64    `json:"percent"`
	ResetsAt *time.Time `json:"resets_at,omitempty"`
}

// ToolUsageStat is the per-tool usage summary.
type ToolUsageStat struct {
	ToolName string     `json:"tool_name"`
	Daily    *QuotaStat `json:"daily,omitempty"`
	Monthly  *QuotaStat `json:"monthly,omitempty"`
}

// CategoryUsageStat aggregates usage across a whole tool category, measured
// against the tier limit table rather than per-tool restrictions.
type CategoryUsageStat struct {
	Daily   *QuotaStat `json:"daily,omitempty"`
	Monthly *QuotaStat `json:"monthly,omitempty"`
}

// UsageStats is the dashboard usage summary for one user.
type UsageStats struct {
	Tier             subscription.Tier        `json:"tier"`
	TierName         string                   `json:"tier_name"`
	Limits           subscription.UsageLimits `json:"limits"`
	ToolCalls        *CategoryUsageStat       `json:"tool_calls,omitempty"`
	VoiceGenerations *CategoryUsageStat       `json:"voice_generations,omitempty"`
	Tools            []ToolUsageStat          `json:"tools"`
	Conversations    *QuotaStat               `json:"conversations,omitempty"`
}

// UsageStatsService assembles usage dashboards from the same aggregation
// the check pipeline uses, so stats and denials never disagree about what
// counts.
type UsageStatsService struct {
	table      *access.Table
	resolver   TierResolver
	aggregator *UsageAggregator
	logger     logger.Interface
	now        func() time.Time
}

func NewUsageStatsService(
	table *access.Table,
	resolver TierResolver,
	aggregator *UsageAggregator,
	logger logger.Interface,
	now func() time.Time,
) *UsageStatsService {
	return &UsageStatsService{
		table:      table,
		resolver:   resolver,
		aggregator: aggregator,
		logger:     logger,
		now:        now,
	}
}

// GetUsageStats returns the user's quota consumption: category-level usage
// measured against the tier limit table, plus every tool that carries usage
// restrictions at their tier.
func (s *UsageStatsService) GetUsageStats(ctx context.Context, userID uint) (*UsageStats, error) {
	tier, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	limits := subscription.LimitsFor(tier)
	stats := &UsageStats{
		Tier:     tier,
		TierName: tier.DisplayName(),
		Limits:   limits,
	}

	stats.ToolCalls, err = s.categoryStat(ctx, userID, now,
		limits.DailyToolCalls, limits.MonthlyToolCalls,
		s.aggregator.CountAllToolsDay, s.aggregator.CountAllToolsMonth)
	if err != nil {
		return nil, err
	}

	stats.VoiceGenerations, err = s.categoryStat(ctx, userID, now,
		limits.VoiceGenerationsPerDay, limits.VoiceGenerationsPerMonth,
		s.voiceCountDay, s.voiceCountMonth)
	if err != nil {
		return nil, err
	}

	for _, name := range s.table.Names() {
		cfg, _ := s.table.Get(name)
		if !tier.AtLeast(cfg.RequiredTier) {
			continue
		}

		var toolStat ToolUsageStat
		for _, restriction := range cfg.RestrictionsFor(tier) {
			switch restriction.Type {
			case access.RestrictionUsagePerDay:
				used, resetsAt, err := s.aggregator.CountToolDay(ctx, userID, name, now)
				if err != nil {
					return nil, err
				}
				toolStat.Daily = newQuotaStat(used, restriction.Limit, resetsAt)
			case access.RestrictionUsagePerMonth:
				used, resetsAt, err := s.aggregator.CountToolMonth(ctx, userID, name, now)
				if err != nil {
					return nil, err
				}
				toolStat.Monthly = newQuotaStat(used, restriction.Limit, resetsAt)
			}
		}

		if toolStat.Daily != nil || toolStat.Monthly != nil {
			toolStat.ToolName = name
			stats.Tools = append(stats.Tools, toolStat)
		}
	}

	if limits.ConversationsPerDay != subscription.Unlimited {
		used, resetsAt, err := s.aggregator.CountConversationsDay(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		stats.Conversations = newQuotaStat(used, limits.ConversationsPerDay, resetsAt)
	}

	return stats, nil
}

// windowCount counts one user's usage in the window containing now and
// returns the window end.
type windowCount func(ctx context.Context, userID uint, now time.Time) (int, time.Time, error)

// categoryStat builds the day and month quota entries for one category.
// Unlimited windows are omitted; a category with no limited window at all
// comes back nil.
func (s *UsageStatsService) categoryStat(
	ctx context.Context,
	userID uint,
	now time.Time,
	dailyLimit, monthlyLimit int,
	countDay, countMonth windowCount,
) (*CategoryUsageStat, error) {
	var stat CategoryUsageStat

	if dailyLimit != subscription.Unlimited {
		used, resetsAt, err := countDay(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		stat.Daily = newQuotaStat(used, dailyLimit, resetsAt)
	}
	if monthlyLimit != subscription.Unlimited {
		used, resetsAt, err := countMonth(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		stat.Monthly = newQuotaStat(used, monthlyLimit, resetsAt)
	}

	if stat.Daily == nil && stat.Monthly == nil {
		return nil, nil
	}
	return &stat, nil
}

func (s *UsageStatsService) voiceCountDay(ctx context.Context, userID uint, now time.Time) (int, time.Time, error) {
	return s.aggregator.CountTypeDay(ctx, userID, access.ToolTypeVoice, now)
}

func (s *UsageStatsService) voiceCountMonth(ctx context.Context, userID uint, now time.Time) (int, time.Time, error) {
	return s.aggregator.CountTypeMonth(ctx, userID, access.ToolTypeVoice, now)
}

func newQuotaStat(used, limit int, resetsAt time.Time) *QuotaStat {
	return &QuotaStat{
		Used:     used,
		Limit:    limit,
		Percent:  usagePercent(used, limit),
		ResetsAt: &resetsAt,
	}
}

// usagePercent returns consumption as a percentage, clamped to [0, 100].
// Unlimited quotas report 0: there is nothing to run out of.
func usagePercent(used, limit int) float64 {
	if limit == subscription.Unlimited {
		return 0
	}
	if limit <= 0 {
		return 100
	}
	percent := float64(used) / float64(limit) * 100
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}
