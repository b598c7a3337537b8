package subscription

// Unlimited is the sentinel limit value meaning "no ceiling". It must be
// special-cased everywhere: never compared against a usage count and never
// used as a divisor when computing percentages.
const Unlimited = -1

// AnalyticsLevel is the ordered access level for the spiritual analytics
// dashboards.
type AnalyticsLevel string

const (
	AnalyticsBasic    AnalyticsLevel = "basic"
	AnalyticsAdvanced AnalyticsLevel = "advanced"
	AnalyticsPremium  AnalyticsLevel = "premium"
	AnalyticsFull     AnalyticsLevel = "full"
)

var analyticsRanks = map[AnalyticsLevel]int{
	AnalyticsBasic:    0,
	AnalyticsAdvanced: 1,
	AnalyticsPremium:  2,
	AnalyticsFull:     3,
}

func (l AnalyticsLevel) Rank() int {
	if rank, ok := analyticsRanks[l]; ok {
		return rank
	}
	return 0
}

func (l AnalyticsLevel) AtLeast(other AnalyticsLevel) bool {
	return l.Rank() >= other.Rank()
}

// UsageLimits describes the usage ceilings of a subscription tier.
// A value of Unlimited (-1) means no ceiling for that category.
type UsageLimits struct {
	DailyToolCalls           int            `json:"daily_tool_calls"`
	MonthlyToolCalls         int            `json:"monthly_tool_calls"`
	VoiceGenerationsPerDay   int            `json:"voice_generations_per_day"`
	VoiceGenerationsPerMonth int            `json:"voice_generations_per_month"`
	AnalyticsAccess          AnalyticsLevel `json:"analytics_access"`
	ConversationsPerDay      int            `json:"conversations_per_day"`
	MaxConversationLength    int            `json:"max_conversation_length"`
	AdvancedFeatures         bool           `json:"advanced_features"`
}

// tierLimits maps every tier to its usage ceilings. Every tier has exactly
// one entry.
var tierLimits = map[Tier]UsageLimits{
	TierFreeTrial: {
		DailyToolCalls:           10,
		MonthlyToolCalls:         50,
		VoiceGenerationsPerDay:   3,
		VoiceGenerationsPerMonth: 10,
		AnalyticsAccess:          AnalyticsBasic,
		ConversationsPerDay:      3,
		MaxConversationLength:    20,
		AdvancedFeatures:         false,
	},
	TierSeeker: {
		DailyToolCalls:           50,
		MonthlyToolCalls:         500,
		VoiceGenerationsPerDay:   50,
		VoiceGenerationsPerMonth: 300,
		AnalyticsAccess:          AnalyticsAdvanced,
		ConversationsPerDay:      10,
		MaxConversationLength:    100,
		AdvancedFeatures:         false,
	},
	TierAdept: {
		DailyToolCalls:           200,
		MonthlyToolCalls:         2000,
		VoiceGenerationsPerDay:   150,
		VoiceGenerationsPerMonth: 1500,
		AnalyticsAccess:          AnalyticsPremium,
		ConversationsPerDay:      30,
		MaxConversationLength:    300,
		AdvancedFeatures:         true,
	},
	TierMaster: {
		DailyToolCalls:           Unlimited,
		MonthlyToolCalls:         Unlimited,
		VoiceGenerationsPerDay:   Unlimited,
		VoiceGenerationsPerMonth: Unlimited,
		AnalyticsAccess:          AnalyticsFull,
		ConversationsPerDay:      Unlimited,
		MaxConversationLength:    Unlimited,
		AdvancedFeatures:         true,
	},
}

// LimitsFor returns the usage ceilings for a tier, defaulting to the free
// trial limits for unknown tiers.
func LimitsFor(tier Tier) UsageLimits {
	if limits, ok := tierLimits[tier]; ok {
		return limits
	}
	return tierLimits[TierFreeTrial]
}

// IsUnlimited reports whether a limit value is the unlimited sentinel.
func IsUnlimited(limit int) bool {
	return limit == Unlimited
}
