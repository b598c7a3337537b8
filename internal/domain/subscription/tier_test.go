package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierSeeker.AtLeast(TierFreeTrial))
	assert.True(t, TierMaster.AtLeast(TierAdept))
	assert.True(t, TierAdept.AtLeast(TierAdept))
	assert.False(t, TierFreeTrial.AtLeast(TierSeeker))
	assert.False(t, TierSeeker.AtLeast(TierMaster))
}

func TestTierRanksAreStrictlyIncreasing(t *testing.T) {
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i].Rank(), Tiers[i-1].Rank())
	}
}

func TestTierNext(t *testing.T) {
	next, ok := TierFreeTrial.Next()
	require.True(t, ok)
	assert.Equal(t, TierSeeker, next)

	next, ok = TierAdept.Next()
	require.True(t, ok)
	assert.Equal(t, TierMaster, next)

	_, ok = TierMaster.Next()
	assert.False(t, ok)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("seeker")
	require.NoError(t, err)
	assert.Equal(t, TierSeeker, tier)

	_, err = ParseTier("cosmic")
	assert.Error(t, err)

	_, err = ParseTier("")
	assert.Error(t, err)
}

func TestEveryTierHasLimits(t *testing.T) {
	for _, tier := range Tiers {
		_, ok := tierLimits[tier]
		assert.True(t, ok, "tier %s has no limits entry", tier)
	}
	assert.Len(t, tierLimits, len(Tiers))
}

func TestUnknownTierRanksLowest(t *testing.T) {
	assert.Equal(t, 0, Tier("cosmic").Rank())
	assert.False(t, Tier("cosmic").Valid())
}
