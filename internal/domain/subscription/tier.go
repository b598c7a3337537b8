package subscription

import "fmt"

// Tier is a subscription plan level. Tiers are totally ordered: a higher
// tier is a strict superset of a lower tier's privileges.
type Tier string

const (
	TierFreeTrial Tier = "free_trial"
	TierSeeker    Tier = "seeker"
	TierAdept     Tier = "adept"
	TierMaster    Tier = "master"
)

// Tiers lists all tiers in ascending order of privilege.
var Tiers = []Tier{TierFreeTrial, TierSeeker, TierAdept, TierMaster}

var tierRanks = map[Tier]int{
	TierFreeTrial: 0,
	TierSeeker:    1,
	TierAdept:     2,
	TierMaster:    3,
}

var tierDisplayNames = map[Tier]string{
	TierFreeTrial: "Free Trial",
	TierSeeker:    "Seeker",
	TierAdept:     "Adept",
	TierMaster:    "Master",
}

func (t Tier) String() string {
	return string(t)
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

// Rank returns the ordinal rank of the tier. Unknown tiers rank lowest.
func (t Tier) Rank() int {
	if rank, ok := tierRanks[t]; ok {
		return rank
	}
	return 0
}

// AtLeast reports whether t grants at least the privileges of other.
func (t Tier) AtLeast(other Tier) bool {
	return t.Rank() >= other.Rank()
}

// Next returns the tier directly above t. The second return value is false
// when t is already the top tier.
func (t Tier) Next() (Tier, bool) {
	rank := t.Rank()
	if rank >= len(Tiers)-1 {
		return t, false
	}
	return Tiers[rank+1], true
}

// DisplayName returns the user-facing name of the tier.
func (t Tier) DisplayName() string {
	if name, ok := tierDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// ParseTier converts a string into a Tier, rejecting unknown values.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid subscription tier: %q", s)
	}
	return t, nil
}
