package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitsForKnownTiers(t *testing.T) {
	free := LimitsFor(TierFreeTrial)
	assert.Equal(t, 10, free.DailyToolCalls)
	assert.False(t, free.AdvancedFeatures)

	master := LimitsFor(TierMaster)
	assert.Equal(t, Unlimited, master.DailyToolCalls)
	assert.Equal(t, Unlimited, master.MonthlyToolCalls)
	assert.True(t, master.AdvancedFeatures)
	assert.Equal(t, AnalyticsFull, master.AnalyticsAccess)
}

func TestLimitsForUnknownTierDefaultsToFreeTrial(t *testing.T) {
	assert.Equal(t, LimitsFor(TierFreeTrial), LimitsFor(Tier("cosmic")))
}

func TestLimitsGrowWithTier(t *testing.T) {
	// limits never shrink moving up a tier; unlimited counts as the maximum
	effective := func(limit int) int {
		if IsUnlimited(limit) {
			return int(^uint(0) >> 1)
		}
		return limit
	}

	for i := 1; i < len(Tiers); i++ {
		lower := LimitsFor(Tiers[i-1])
		higher := LimitsFor(Tiers[i])

		assert.GreaterOrEqual(t, effective(higher.DailyToolCalls), effective(lower.DailyToolCalls))
		assert.GreaterOrEqual(t, effective(higher.MonthlyToolCalls), effective(lower.MonthlyToolCalls))
		assert.GreaterOrEqual(t, effective(higher.ConversationsPerDay), effective(lower.ConversationsPerDay))
		assert.GreaterOrEqual(t, higher.AnalyticsAccess.Rank(), lower.AnalyticsAccess.Rank())
	}
}

func TestIsUnlimited(t *testing.T) {
	assert.True(t, IsUnlimited(Unlimited))
	assert.False(t, IsUnlimited(0))
	assert.False(t, IsUnlimited(100))
}

func TestAnalyticsLevelOrdering(t *testing.T) {
	assert.True(t, AnalyticsFull.AtLeast(AnalyticsBasic))
	assert.True(t, AnalyticsAdvanced.AtLeast(AnalyticsAdvanced))
	assert.False(t, AnalyticsBasic.AtLeast(AnalyticsPremium))
}
