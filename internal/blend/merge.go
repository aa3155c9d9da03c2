// Package blend folds an external complexity insight into a deterministic
// estimate. Every function returns new values; inputs are never modified.
package blend

import (
	"math"

	"github.com/Simplici0/webquote/internal/insight"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
)

// Confidence thresholds for per-factor merging.
const (
	IgnoreBelow   = 0.3
	OverrideAbove = 0.65
)

// Merge blends the insight's proposed levels into set. Per factor, a
// confidence below IgnoreBelow keeps the current level, one at or above
// OverrideAbove takes the proposed level and records the factor as an
// override, and anything in between keeps the heavier of the two levels.
// Proposed levels outside their enumeration are ignored.
func Merge(set pricing.MultiplierSet, in insight.Insight) (pricing.MultiplierSet, []string) {
	blended := set
	overrides := []string{}
	for _, f := range ratetable.Factors() {
		proposed := in.Multipliers.Get(f)
		proposedRank := ratetable.Rank(f, proposed)
		if proposedRank < 0 {
			continue
		}

		conf := factorConfidence(in, f)
		switch {
		case conf < IgnoreBelow:
		case conf >= OverrideAbove:
			blended = blended.With(f, proposed)
			overrides = append(overrides, string(f))
		default:
			if proposedRank > ratetable.Rank(f, set.Get(f)) {
				blended = blended.With(f, proposed)
			}
		}
	}
	return blended, overrides
}

func factorConfidence(in insight.Insight, f ratetable.Factor) float64 {
	c, ok := in.FactorConfidence[f]
	if !ok {
		c = in.Confidence
	}
	if math.IsNaN(c) {
		return 0
	}
	return c
}
