package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luminara/internal/domain/access"
	"luminara/internal/domain/subscription"
)

func newTestStatsService(tier subscription.Tier, usage *fakeUsageRepo) *UsageStatsService {
	if usage == nil {
		usage = &fakeUsageRepo{}
	}
	log := newNopLogger()
	return NewUsageStatsService(
		access.DefaultTable(),
		&fixedTierResolver{tier: tier},
		NewUsageAggregator(usage, log),
		log,
		func() time.Time { return testNow },
	)
}

func TestGetUsageStats(t *testing.T) {
	ctx := context.Background()

	t.Run("free trial stats", func(t *testing.T) {
		usage := &fakeUsageRepo{
			toolCounts:    map[string]int{access.ToolTarotReading: 2, access.ToolNumerology: 1},
			conversations: 1,
		}
		svc := newTestStatsService(subscription.TierFreeTrial, usage)

		stats, err := svc.GetUsageStats(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, subscription.TierFreeTrial, stats.Tier)
		assert.Equal(t, "Free Trial", stats.TierName)

		byName := make(map[string]ToolUsageStat)
		for _, tool := range stats.Tools {
			byName[tool.ToolName] = tool
		}

		tarot := byName[access.ToolTarotReading]
		require.NotNil(t, tarot.Daily)
		assert.Equal(t, 2, tarot.Daily.Used)
		assert.Equal(t, 3, tarot.Daily.Limit)
		assert.InDelta(t, 66.7, tarot.Daily.Percent, 0.1)
		require.NotNil(t, tarot.Daily.ResetsAt)
		assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), *tarot.Daily.ResetsAt)

		numerology := byName[access.ToolNumerology]
		require.NotNil(t, numerology.Daily)
		require.NotNil(t, numerology.Monthly)
		assert.Equal(t, 10, numerology.Monthly.Limit)

		// inaccessible tools are excluded
		_, listed := byName[access.ToolDreamInterpreter]
		assert.False(t, listed)

		require.NotNil(t, stats.Conversations)
		assert.Equal(t, 1, stats.Conversations.Used)
		assert.Equal(t, 3, stats.Conversations.Limit)

		// the tool call category counts every tool together
		require.NotNil(t, stats.ToolCalls)
		require.NotNil(t, stats.ToolCalls.Daily)
		assert.Equal(t, 3, stats.ToolCalls.Daily.Used)
		assert.Equal(t, 10, stats.ToolCalls.Daily.Limit)
		require.NotNil(t, stats.ToolCalls.Monthly)
		assert.Equal(t, 50, stats.ToolCalls.Monthly.Limit)

		assert.Equal(t, subscription.LimitsFor(subscription.TierFreeTrial), stats.Limits)
	})

	t.Run("voice generation category measures the whole type", func(t *testing.T) {
		usage := &fakeUsageRepo{
			toolCounts: map[string]int{access.ToolVoiceGeneration: 30},
			typeCounts: map[string]int{access.ToolTypeVoice: 30},
		}
		svc := newTestStatsService(subscription.TierSeeker, usage)

		stats, err := svc.GetUsageStats(ctx, 1)
		require.NoError(t, err)

		require.NotNil(t, stats.VoiceGenerations)
		require.NotNil(t, stats.VoiceGenerations.Daily)
		assert.Equal(t, 30, stats.VoiceGenerations.Daily.Used)
		assert.Equal(t, 50, stats.VoiceGenerations.Daily.Limit)
		assert.InDelta(t, 60.0, stats.VoiceGenerations.Daily.Percent, 0.1)
		require.NotNil(t, stats.VoiceGenerations.Daily.ResetsAt)
		assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), *stats.VoiceGenerations.Daily.ResetsAt)

		require.NotNil(t, stats.VoiceGenerations.Monthly)
		assert.Equal(t, 300, stats.VoiceGenerations.Monthly.Limit)
		require.NotNil(t, stats.VoiceGenerations.Monthly.ResetsAt)
		assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *stats.VoiceGenerations.Monthly.ResetsAt)
	})

	t.Run("master has no quota entries", func(t *testing.T) {
		svc := newTestStatsService(subscription.TierMaster, nil)

		stats, err := svc.GetUsageStats(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, stats.Tools)
		assert.Nil(t, stats.Conversations)
		assert.Nil(t, stats.ToolCalls)
		assert.Nil(t, stats.VoiceGenerations)
		assert.True(t, stats.Limits.AdvancedFeatures)
	})
}

func TestUsagePercent(t *testing.T) {
	assert.Equal(t, 0.0, usagePercent(100, subscription.Unlimited))
	assert.Equal(t, 0.0, usagePercent(0, 10))
	assert.Equal(t, 50.0, usagePercent(5, 10))
	assert.Equal(t, 100.0, usagePercent(10, 10))
	// overshoot from racing requests clamps at 100
	assert.Equal(t, 100.0, usagePercent(12, 10))
}
