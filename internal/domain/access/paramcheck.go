package access

import (
	"fmt"
	"sort"
	"strings"

	"luminara/internal/domain/subscription"
)

// Violation reports a restricted parameter value together with the tier at
// which the value unlocks.
type Violation struct {
	Reason      string
	UpgradeTier subscription.Tier
}

// ParamChecker validates a tool's invocation parameters against a
// limitation mode. It returns nil when the parameters are acceptable.
// Checkers are pure functions and only inspect parameters that are present;
// absent parameters never violate.
type ParamChecker func(mode string, params map[string]any) *Violation

// CheckerRegistry maps tool names to their parameter checkers. Tools
// without a registered checker skip parameter validation entirely, so every
// tool declaring a parameter_limited restriction must register one.
type CheckerRegistry struct {
	checkers map[string]ParamChecker
}

// NewCheckerRegistry returns an empty registry.
func NewCheckerRegistry() *CheckerRegistry {
	return &CheckerRegistry{checkers: make(map[string]ParamChecker)}
}

// Register binds a checker to a tool name, replacing any previous binding.
func (r *CheckerRegistry) Register(tool string, fn ParamChecker) {
	r.checkers[tool] = fn
}

// Lookup returns the checker for a tool name.
func (r *CheckerRegistry) Lookup(tool string) (ParamChecker, bool) {
	fn, ok := r.checkers[tool]
	return fn, ok
}

// DefaultCheckers returns a registry with the built-in tool checkers
// matching DefaultTable.
func DefaultCheckers() *CheckerRegistry {
	r := NewCheckerRegistry()
	r.Register(ToolTarotReading, CheckTarotParams)
	r.Register(ToolVoiceGeneration, CheckVoiceParams)
	r.Register(ToolConversationExport, CheckExportParams)
	return r
}

var tarotSpreadsByMode = map[string]map[string]bool{
	ModeSingleCard: {
		"single_card": true,
	},
	ModeBasicSpreads: {
		"single_card": true,
		"three_card":  true,
		"horseshoe":   true,
	},
}

var tarotModeUpgrades = map[string]subscription.Tier{
	ModeSingleCard:   subscription.TierSeeker,
	ModeBasicSpreads: subscription.TierMaster,
}

// CheckTarotParams validates the "spread" parameter of tarot readings.
func CheckTarotParams(mode string, params map[string]any) *Violation {
	spread, ok := stringParam(params, "spread")
	if !ok {
		return nil
	}

	allowed, known := tarotSpreadsByMode[mode]
	if !known || allowed[spread] {
		return nil
	}

	return &Violation{
		Reason:      fmt.Sprintf("The %q spread is not available on your plan. Available spreads: %s", spread, joinKeys(allowed)),
		UpgradeTier: tarotModeUpgrades[mode],
	}
}

var basicVoices = map[string]bool{
	"aurora": true,
	"sage":   true,
	"luna":   true,
}

// CheckVoiceParams validates the "voice" parameter of voice generation.
func CheckVoiceParams(mode string, params map[string]any) *Violation {
	if mode != ModeBasicVoices {
		return nil
	}

	voice, ok := stringParam(params, "voice")
	if !ok || basicVoices[voice] {
		return nil
	}

	return &Violation{
		Reason:      fmt.Sprintf("The %q voice is not available on your plan. Available voices: %s", voice, joinKeys(basicVoices)),
		UpgradeTier: subscription.TierAdept,
	}
}

var basicExportFormats = map[string]bool{
	"markdown": true,
}

// CheckExportParams validates the "format" parameter of conversation export.
func CheckExportParams(mode string, params map[string]any) *Violation {
	if mode != ModeBasicFormats {
		return nil
	}

	format, ok := stringParam(params, "format")
	if !ok || basicExportFormats[format] {
		return nil
	}

	return &Violation{
		Reason:      fmt.Sprintf("The %q export format is not available on your plan", format),
		UpgradeTier: subscription.TierAdept,
	}
}

func stringParam(params map[string]any, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	value, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func joinKeys(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
