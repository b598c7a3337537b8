package access

import (
	"luminara/internal/domain/subscription"
)

// Tool names for every gated capability. Tools not listed here are
// deliberately ungated.
const (
	ToolTarotReading       = "tarot_reading"
	ToolDreamInterpreter   = "dream_interpreter"
	ToolNumerology         = "numerology"
	ToolAstrologyChart     = "astrology_chart"
	ToolVoiceGeneration    = "voice_generation"
	ToolConversationExport = "conversation_export"
	ToolSpiritualAnalytics = "spiritual_analytics"
)

// Tool type tags recorded in message metadata, used for category-level
// usage aggregation.
const (
	ToolTypeReading   = "reading"
	ToolTypeVoice     = "voice"
	ToolTypeExport    = "export"
	ToolTypeAnalytics = "analytics"
)

// Parameter limitation modes interpreted by the built-in checkers.
const (
	ModeSingleCard   = "single_card"
	ModeBasicSpreads = "basic_spreads"
	ModeBasicVoices  = "basic_voices"
	ModeBasicFormats = "basic_formats"
)

// DefaultTable returns the built-in tool access configuration table.
func DefaultTable() *Table {
	table, err := NewTable(
		ToolConfig{
			Name:            ToolTarotReading,
			RequiredTier:    subscription.TierFreeTrial,
			PremiumFeatures: []string{"celtic_cross", "astrological_spread"},
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierFreeTrial: {
					UsagePerDay(3, "Free trial includes 3 tarot readings per day"),
					ParameterLimited(ModeSingleCard, "Free trial includes single-card readings only"),
				},
				subscription.TierSeeker: {
					UsagePerDay(20, "Seeker includes 20 tarot readings per day"),
					ParameterLimited(ModeBasicSpreads, "Seeker includes basic spreads only"),
				},
				subscription.TierAdept: {
					ParameterLimited(ModeBasicSpreads, "Celtic Cross and astrological spreads unlock at Master"),
				},
			},
		},
		ToolConfig{
			Name:         ToolDreamInterpreter,
			RequiredTier: subscription.TierSeeker,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierSeeker: {
					UsagePerDay(10, "Seeker includes 10 dream interpretations per day"),
				},
				subscription.TierAdept: {
					UsagePerDay(50, "Adept includes 50 dream interpretations per day"),
				},
			},
		},
		ToolConfig{
			Name:         ToolNumerology,
			RequiredTier: subscription.TierFreeTrial,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierFreeTrial: {
					UsagePerDay(2, "Free trial includes 2 numerology reports per day"),
					UsagePerMonth(10, "Free trial includes 10 numerology reports per month"),
				},
			},
		},
		ToolConfig{
			Name:         ToolAstrologyChart,
			RequiredTier: subscription.TierAdept,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierAdept: {
					UsagePerMonth(30, "Adept includes 30 natal charts per month"),
				},
			},
		},
		ToolConfig{
			Name:         ToolVoiceGeneration,
			RequiredTier: subscription.TierFreeTrial,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierFreeTrial: {
					UsagePerDay(3, "Free trial includes 3 voice generations per day"),
					ParameterLimited(ModeBasicVoices, "Free trial includes basic voices only"),
				},
				subscription.TierSeeker: {
					UsagePerDay(50, "Seeker includes 50 voice generations per day"),
					ParameterLimited(ModeBasicVoices, "Premium voices unlock at Adept"),
				},
				subscription.TierAdept: {
					UsagePerMonth(1500, "Adept includes 1500 voice generations per month"),
				},
			},
		},
		ToolConfig{
			Name:         ToolConversationExport,
			RequiredTier: subscription.TierSeeker,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierSeeker: {
					UsagePerDay(5, "Seeker includes 5 conversation exports per day"),
					ParameterLimited(ModeBasicFormats, "HTML export unlocks at Adept"),
				},
			},
		},
		ToolConfig{
			Name:         ToolSpiritualAnalytics,
			RequiredTier: subscription.TierSeeker,
			Restrictions: map[subscription.Tier][]Restriction{
				subscription.TierSeeker: {
					FeatureDisabled("Advanced analytics dashboards unlock at Adept"),
				},
			},
		},
	)
	if err != nil {
		// the built-in table is defined above; failing to build it is a bug
		panic("access: invalid default tool table: " + err.Error())
	}
	return table
}
