package access

import (
	"fmt"

	"luminara/internal/domain/subscription"
)

// ToolConfig describes the access policy of one named tool: the minimum
// tier required to invoke it at all, and the per-tier restriction lists
// applied once the tier requirement is met. Restriction lists are evaluated
// in order; the first violated restriction decides the denial.
type ToolConfig struct {
	Name            string                                   `json:"name" yaml:"name"`
	RequiredTier    subscription.Tier                        `json:"required_tier" yaml:"required_tier"`
	PremiumFeatures []string                                 `json:"premium_features,omitempty" yaml:"premium_features,omitempty"`
	Restrictions    map[subscription.Tier][]Restriction      `json:"restrictions,omitempty" yaml:"restrictions,omitempty"`
}

// RestrictionsFor returns the ordered restriction list for a tier. Tiers
// with no entry are unrestricted.
func (c ToolConfig) RestrictionsFor(tier subscription.Tier) []Restriction {
	return c.Restrictions[tier]
}

// Validate checks the config for internal consistency.
func (c ToolConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if !c.RequiredTier.Valid() {
		return fmt.Errorf("tool %s: invalid required tier %q", c.Name, c.RequiredTier)
	}
	for tier, restrictions := range c.Restrictions {
		if !tier.Valid() {
			return fmt.Errorf("tool %s: restrictions reference invalid tier %q", c.Name, tier)
		}
		if tier.Rank() < c.RequiredTier.Rank() {
			return fmt.Errorf("tool %s: restrictions for tier %s below required tier %s are unreachable", c.Name, tier, c.RequiredTier)
		}
		for _, r := range restrictions {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("tool %s, tier %s: %w", c.Name, tier, err)
			}
		}
	}
	return nil
}

// Table is the tool access configuration table. Tool names are globally
// unique; a tool absent from the table is implicitly unrestricted
// (default-allow), so every gated capability must be registered by name.
type Table struct {
	tools map[string]ToolConfig
	order []string
}

// NewTable builds a table from the given configs, rejecting duplicates and
// invalid entries.
func NewTable(configs ...ToolConfig) (*Table, error) {
	t := &Table{tools: make(map[string]ToolConfig, len(configs))}
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, exists := t.tools[cfg.Name]; exists {
			return nil, fmt.Errorf("duplicate tool configuration: %s", cfg.Name)
		}
		t.tools[cfg.Name] = cfg
		t.order = append(t.order, cfg.Name)
	}
	return t, nil
}

// Get returns the config for a tool name. The second return value is false
// for unregistered tools.
func (t *Table) Get(name string) (ToolConfig, bool) {
	cfg, ok := t.tools[name]
	return cfg, ok
}

// Names returns all registered tool names in registration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Len returns the number of registered tools.
func (t *Table) Len() int {
	return len(t.tools)
}
