package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luminara/internal/domain/subscription"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, 7, table.Len())

	t.Run("every parameter limited tool has a checker", func(t *testing.T) {
		checkers := DefaultCheckers()
		for _, name := range table.Names() {
			cfg, ok := table.Get(name)
			require.True(t, ok)
			for tier, restrictions := range cfg.Restrictions {
				for _, r := range restrictions {
					if r.Type != RestrictionParameterLimited {
						continue
					}
					_, ok := checkers.Lookup(name)
					assert.True(t, ok, "tool %s tier %s declares parameter limits without a checker", name, tier)
				}
			}
		}
	})

	t.Run("dream interpreter requires seeker", func(t *testing.T) {
		cfg, ok := table.Get(ToolDreamInterpreter)
		require.True(t, ok)
		assert.Equal(t, subscription.TierSeeker, cfg.RequiredTier)
	})

	t.Run("voice generation capped at 50 per day for seeker", func(t *testing.T) {
		cfg, ok := table.Get(ToolVoiceGeneration)
		require.True(t, ok)
		restrictions := cfg.RestrictionsFor(subscription.TierSeeker)
		require.NotEmpty(t, restrictions)
		assert.Equal(t, RestrictionUsagePerDay, restrictions[0].Type)
		assert.Equal(t, 50, restrictions[0].Limit)
	})

	t.Run("master tier is unrestricted everywhere", func(t *testing.T) {
		for _, name := range table.Names() {
			cfg, _ := table.Get(name)
			assert.Empty(t, cfg.RestrictionsFor(subscription.TierMaster), "tool %s restricts master", name)
		}
	})

	t.Run("unregistered tool is absent", func(t *testing.T) {
		_, ok := table.Get("crystal_ball")
		assert.False(t, ok)
	})
}

func TestToolConfigValidate(t *testing.T) {
	t.Run("restrictions below required tier rejected", func(t *testing.T) {
		cfg := ToolConfig{
			Name:         "test_tool",
			RequiredTier: subscription.TierAdept,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierSeeker: {UsagePerDay(5, "five per day")},
			},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing name rejected", func(t *testing.T) {
		cfg := ToolConfig{RequiredTier: subscription.TierFreeTrial}
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid restriction rejected", func(t *testing.T) {
		cfg := ToolConfig{
			Name:         "test_tool",
			RequiredTier: subscription.TierFreeTrial,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierFreeTrial: {{Type: "usage_per_day", Limit: 0, Description: "zero"}},
			},
		}
		assert.Error(t, cfg.Validate())
	})
}

func TestNewTable(t *testing.T) {
	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := NewTable(
			ToolConfig{Name: "dup", RequiredTier: subscription.TierFreeTrial},
			ToolConfig{Name: "dup", RequiredTier: subscription.TierSeeker},
		)
		assert.Error(t, err)
	})

	t.Run("names preserve registration order", func(t *testing.T) {
		table, err := NewTable(
			ToolConfig{Name: "b", RequiredTier: subscription.TierFreeTrial},
			ToolConfig{Name: "a", RequiredTier: subscription.TierFreeTrial},
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, table.Names())
	})
}

func TestRestrictionValidate(t *testing.T) {
	assert.NoError(t, UsagePerDay(10, "ten").Validate())
	assert.NoError(t, UsagePerDay(subscription.Unlimited, "unlimited").Validate())
	assert.NoError(t, FeatureDisabled("off").Validate())
	assert.NoError(t, ParameterLimited(ModeBasicSpreads, "basic").Validate())

	assert.Error(t, Restriction{Type: RestrictionUsagePerDay, Limit: -2, Description: "bad"}.Validate())
	assert.Error(t, Restriction{Type: RestrictionParameterLimited, Description: "no mode"}.Validate())
	assert.Error(t, Restriction{Type: "bogus", Description: "x"}.Validate())
	assert.Error(t, Restriction{Type: RestrictionFeatureDisabled}.Validate())
}
