package tier

import "strings"

// Tier is a discrete loyalty level derived from a customer's cumulative spend.
type Tier string

const (
	Standard Tier = "STANDARD"
	Bronze   Tier = "BRONZE"
	Silver   Tier = "SILVER"
	Gold     Tier = "GOLD"
)

// Spend thresholds in minor units. A customer holds the highest tier whose
// threshold their cumulative spend has reached.
const (
	BronzeThreshold int64 = 200_000
	SilverThreshold int64 = 600_000
	GoldThreshold   int64 = 1_200_000
)

// Compute derives the tier for the given cumulative spend. It is the single
// source of truth: the persisted tier column is a cache refreshed at
// settlement time. Negative spend is treated as zero.
func Compute(spend int64) Tier {
	switch {
	case spend >= GoldThreshold:
		return Gold
	case spend >= SilverThreshold:
		return Silver
	case spend >= BronzeThreshold:
		return Bronze
	default:
		return Standard
	}
}

// Next returns the tier above t, or t itself when t is already the highest.
func (t Tier) Next() Tier {
	switch t {
	case Standard:
		return Bronze
	case Bronze:
		return Silver
	case Silver:
		return Gold
	default:
		return Gold
	}
}

// Threshold returns the minimum cumulative spend required for t.
func Threshold(t Tier) int64 {
	switch t {
	case Bronze:
		return BronzeThreshold
	case Silver:
		return SilverThreshold
	case Gold:
		return GoldThreshold
	default:
		return 0
	}
}

// Progress reports the next tier and the remaining spend needed to reach it.
// The second return is zero and ok is false when spend already places the
// customer in the highest tier.
func Progress(spend int64) (next Tier, remaining int64, ok bool) {
	current := Compute(spend)
	if current == Gold {
		return Gold, 0, false
	}
	next = current.Next()
	return next, Threshold(next) - spend, true
}

// Parse maps a stored tier label to a Tier, defaulting to Standard for
// unknown or legacy values.
func Parse(value string) Tier {
	switch Tier(strings.ToUpper(strings.TrimSpace(value))) {
	case Bronze:
		return Bronze
	case Silver:
		return Silver
	case Gold:
		return Gold
	default:
		return Standard
	}
}

// Rank orders tiers from Standard (0) to Gold (3).
func Rank(t Tier) int {
	switch t {
	case Bronze:
		return 1
	case Silver:
		return 2
	case Gold:
		return 3
	default:
		return 0
	}
}
